package logs_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"sleuth/internal/logs"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLocateMainLog(t *testing.T) {
	dir := t.TempDir()
	path, err := logs.Locate(dir, "")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if path != filepath.Join(dir, "sleuth.log") {
		t.Fatalf("unexpected main log path: %s", path)
	}
}

func TestLocateRunLogByPrefix(t *testing.T) {
	dir := t.TempDir()
	want := writeLog(t, dir, logs.RunLogName("1a2b3c4d"), "")
	writeLog(t, dir, logs.RunLogName("9f8e7d6c"), "")
	writeLog(t, dir, "sleuth.log", "")

	path, err := logs.Locate(dir, "1a2b")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if path != want {
		t.Fatalf("Locate = %s, want %s", path, want)
	}

	// A full run id still selects the log named after its leading segment.
	path, err = logs.Locate(dir, "1a2b3c4d-0000-4000-8000-000000000000")
	if err != nil {
		t.Fatalf("Locate with full id returned error: %v", err)
	}
	if path != want {
		t.Fatalf("Locate with full id = %s, want %s", path, want)
	}
}

func TestLocateRejectsAmbiguousAndUnknownPrefixes(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, logs.RunLogName("1a2b3c4d"), "")
	writeLog(t, dir, logs.RunLogName("1a2b9999"), "")

	if _, err := logs.Locate(dir, "1a2b"); err == nil {
		t.Fatal("expected error for ambiguous prefix")
	} else if !strings.Contains(err.Error(), "longer prefix") {
		t.Fatalf("unexpected ambiguity error: %v", err)
	}

	if _, err := logs.Locate(dir, "zz"); err == nil {
		t.Fatal("expected error for unknown prefix")
	}
}

func TestLastLinesKeepsTrailingLines(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "sleuth.log", "a\nb\nc\n")

	lines, offset, err := logs.LastLines(path, 2)
	if err != nil {
		t.Fatalf("LastLines returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != int64(len("a\nb\nc\n")) {
		t.Fatalf("offset = %d, want end of file", offset)
	}
}

func TestLastLinesShortFileAndMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "sleuth.log", "only\n")

	lines, _, err := logs.LastLines(path, 5)
	if err != nil {
		t.Fatalf("LastLines returned error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "only" {
		t.Fatalf("unexpected lines: %#v", lines)
	}

	lines, offset, err := logs.LastLines(filepath.Join(dir, "absent.log"), 5)
	if err != nil {
		t.Fatalf("LastLines on missing file returned error: %v", err)
	}
	if len(lines) != 0 || offset != 0 {
		t.Fatalf("expected empty result for missing file, got %#v offset %d", lines, offset)
	}
}

func TestLastLinesZeroLimitSkipsToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "sleuth.log", "a\nb\n")

	lines, offset, err := logs.LastLines(path, 0)
	if err != nil {
		t.Fatalf("LastLines returned error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %#v", lines)
	}
	if offset != int64(len("a\nb\n")) {
		t.Fatalf("offset = %d, want end of file", offset)
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFollowStreamsAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "sleuth.log", "start\n")

	_, offset, err := logs.LastLines(path, 0)
	if err != nil {
		t.Fatalf("LastLines returned error: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, out)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "later") {
		if time.Now().After(deadline) {
			t.Fatal("followed output never contained the appended line")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not stop after cancellation")
	}

	if got := out.String(); got != "later\n" {
		t.Fatalf("unexpected follow output: %q", got)
	}
}
