package artifacts_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sleuth/internal/artifacts"
	"sleuth/internal/config"
	"sleuth/internal/logging"
)

func TestDirSinkWritesSanitizedCapture(t *testing.T) {
	dir := t.TempDir()
	sink, err := artifacts.NewDirSink(dir, logging.NewNop())
	if err != nil {
		t.Fatalf("NewDirSink() error = %v", err)
	}

	document := "<html><body>results</body></html>"
	if err := sink.Capture(context.Background(), "Smith & Sons / West", document); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	path := filepath.Join(dir, "Smith & Sons - West_results.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("capture not written: %v", err)
	}
	if string(data) != document {
		t.Errorf("capture = %q, want %q", data, document)
	}
}

func TestDirSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "captures")
	sink, err := artifacts.NewDirSink(dir, logging.NewNop())
	if err != nil {
		t.Fatalf("NewDirSink() error = %v", err)
	}
	if err := sink.Capture(context.Background(), "Acme", "<html></html>"); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Acme_results.html")); err != nil {
		t.Errorf("capture missing: %v", err)
	}
}

func TestDirSinkEmptyQueryFallsBack(t *testing.T) {
	dir := t.TempDir()
	sink, err := artifacts.NewDirSink(dir, logging.NewNop())
	if err != nil {
		t.Fatalf("NewDirSink() error = %v", err)
	}
	if err := sink.Capture(context.Background(), "   ", "<html></html>"); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "capture_results.html")); err != nil {
		t.Errorf("fallback capture missing: %v", err)
	}
}

func TestDiscardDropsCaptures(t *testing.T) {
	if err := artifacts.Discard.Capture(context.Background(), "Acme", "<html></html>"); err != nil {
		t.Fatalf("Discard.Capture() error = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Artifacts.Enabled = false
	sink, err := artifacts.FromConfig(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if sink != artifacts.Discard {
		t.Errorf("FromConfig(disabled) = %T, want Discard", sink)
	}

	cfg.Artifacts.Enabled = true
	cfg.Artifacts.Dir = filepath.Join(t.TempDir(), "captures")
	sink, err = artifacts.FromConfig(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if _, ok := sink.(*artifacts.DirSink); !ok {
		t.Errorf("FromConfig(enabled) = %T, want *DirSink", sink)
	}
}
