package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sleuth/internal/config"
	"sleuth/internal/testsupport"
)

type cliTestEnv struct {
	cfg         *config.Config
	configPath  string
	capturesDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	capturesDir := filepath.Join(base, "recorded")
	if err := os.MkdirAll(capturesDir, 0o755); err != nil {
		t.Fatalf("mkdir captures: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, capturesDir: capturesDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
data_dir = %q

[portal]
url = %q

[session]
navigation_timeout = %d
input_timeout = %d
result_timeout = %d
poll_interval_ms = %d

[storage]
journal_enabled = %t
database_path = %q

[artifacts]
dir = %q

[logging]
format = %q
level = %q
`,
		cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.DataDir,
		cfg.Portal.URL,
		cfg.Session.NavigationTimeout, cfg.Session.InputTimeout, cfg.Session.ResultTimeout, cfg.Session.PollIntervalMS,
		cfg.Storage.JournalEnabled, cfg.Storage.DatabasePath,
		cfg.Artifacts.Dir,
		cfg.Logging.Format, cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeNamesFile(t *testing.T, env *cliTestEnv, names ...string) string {
	t.Helper()
	path := filepath.Join(testsupport.BaseDir(env.cfg), "names.txt")
	if err := os.WriteFile(path, []byte(strings.Join(names, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write names file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q to not contain %q", output, substr)
	}
}
