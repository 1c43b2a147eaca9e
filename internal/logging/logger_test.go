package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sleuth/internal/logging"
)

func TestNewConsoleOmitsCallerForInfo(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "console-info.log")

	opts := logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	}

	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestNewConsoleIncludesCallerForDebug(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "console-debug.log")

	opts := logging.Options{
		Format:           "console",
		Level:            "debug",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	}

	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestNewConsoleDebugBuildKeepsInfoClean(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "console-mixed.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("routine progress")
	logger.Debug("wire detail")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, "routine progress") && strings.Contains(line, ".go:") {
			t.Fatalf("expected info line without caller on a debug-built handler, got %q", line)
		}
		if strings.Contains(line, "wire detail") && !strings.Contains(line, ".go:") {
			t.Fatalf("expected debug line with caller, got %q", line)
		}
	}
}

func TestNewConsoleSubjectAndFields(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "console-subject.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("lookup complete",
		logging.String(logging.FieldComponent, "orchestrator"),
		logging.String(logging.FieldQuery, "MTD Products"),
		logging.String(logging.FieldSessionID, "sess-1a2b"),
		logging.Bool("matched", true),
		logging.Float64("confidence", 0.85),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)

	if !strings.Contains(text, "[orchestrator]") {
		t.Fatalf("expected component header, got %q", text)
	}
	if !strings.Contains(text, `"MTD Products" (sess-1a2b)`) {
		t.Fatalf("expected query/session subject, got %q", text)
	}
	if !strings.Contains(text, "Matched: yes") {
		t.Fatalf("expected matched field rendered as yes, got %q", text)
	}
	if !strings.Contains(text, "Confidence: 0.85") {
		t.Fatalf("expected confidence field, got %q", text)
	}
}

func TestNewJSONUsesStructuredKeys(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hello", logging.String("query", "Acme"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)

	for _, fragment := range []string{`"ts":`, `"level":"info"`, `"msg":"hello"`, `"query":"Acme"`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %s in JSON output, got %q", fragment, text)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewRunLogHandlerAppendsJSON(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "runs", "run-1.jsonl")

	handler, closer, err := logging.NewRunLogHandler(logPath, "info")
	if err != nil {
		t.Fatalf("NewRunLogHandler returned error: %v", err)
	}
	t.Cleanup(func() { closer.Close() })

	logger := logging.TeeLogger(logging.NewNop(), handler)
	logger.Info("run started", logging.String("run_id", "run-1"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	if !strings.Contains(string(content), `"run_id":"run-1"`) {
		t.Fatalf("expected run_id in run log, got %q", content)
	}
}

func TestWithLevelOverride(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "override.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	quiet := logging.WithLevelOverride(logger, 4) // slog.LevelWarn
	quiet.Info("should be suppressed")
	quiet.Warn("should appear")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)

	if strings.Contains(text, "should be suppressed") {
		t.Fatalf("expected info suppressed under override, got %q", text)
	}
	if !strings.Contains(text, "should appear") {
		t.Fatalf("expected warn to pass override, got %q", text)
	}
}

func TestWithLevelOverrideMovesFloorBothWays(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "floor.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	// The batch command builds its handlers this way: debug-capable, with the
	// effective level enforced by the override.
	quiet := logging.WithLevelOverride(logger, 0) // slog.LevelInfo
	quiet.Debug("hidden detail")
	quiet.Info("visible progress")

	chatty := logging.WithLevelOverride(quiet, -4) // slog.LevelDebug
	chatty.Debug("restored detail")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)

	if strings.Contains(text, "hidden detail") {
		t.Fatalf("expected debug suppressed at info floor, got %q", text)
	}
	if !strings.Contains(text, "visible progress") {
		t.Fatalf("expected info to pass at info floor, got %q", text)
	}
	if !strings.Contains(text, "restored detail") {
		t.Fatalf("expected debug to pass once the floor moves down, got %q", text)
	}
}
