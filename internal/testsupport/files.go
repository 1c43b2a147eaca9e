package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sleuth/internal/textutil"
)

// WriteCapture stores a recorded result document under dir using the capture
// naming the replay driver expects, and returns the written path.
func WriteCapture(t testing.TB, dir, query, document string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, textutil.SanitizeFileName(query)+"_results.html")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatalf("write capture %s: %v", path, err)
	}
	return path
}

// WriteLines writes a line-per-entry text file and returns its path.
func WriteLines(t testing.TB, path string, lines ...string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
