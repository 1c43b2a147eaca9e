package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	DataDir   string `toml:"data_dir"`
}

// Portal describes the public lookup portal that retrieval sessions drive.
type Portal struct {
	URL               string `toml:"url"`
	SearchInput       string `toml:"search_input"`
	ConsentButtonText string `toml:"consent_button_text"`
}

// Session contains per-step retrieval session timing, in seconds except where
// the field name says otherwise.
type Session struct {
	NavigationTimeout int `toml:"navigation_timeout"`
	InputTimeout      int `toml:"input_timeout"`
	ResultTimeout     int `toml:"result_timeout"`
	PollIntervalMS    int `toml:"poll_interval_ms"`
}

// Batch contains orchestrator sizing and pacing.
type Batch struct {
	BatchSize      int     `toml:"batch_size"`
	MaxConcurrent  int     `toml:"max_concurrent"`
	BatchPause     int     `toml:"batch_pause"`
	SubmitRate     float64 `toml:"submit_rate"`
	ExtractWorkers int     `toml:"extract_workers"`
}

// Storage contains run journal persistence settings.
type Storage struct {
	JournalEnabled bool   `toml:"journal_enabled"`
	DatabasePath   string `toml:"database_path"`
}

// Artifacts contains captured-document sink settings.
type Artifacts struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	RunEvents      bool   `toml:"run_events"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for Sleuth.
//
// Configuration sections by subsystem:
//   - Paths: report, log, and data directories
//   - Portal: lookup portal URL and page controls
//   - Session: per-step retrieval timeouts and result polling
//   - Batch: orchestrator batch sizing, concurrency, and pacing
//   - Storage: SQLite run journal toggle and location
//   - Artifacts: raw document capture sink
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Portal        Portal        `toml:"portal"`
	Session       Session       `toml:"session"`
	Batch         Batch         `toml:"batch"`
	Storage       Storage       `toml:"storage"`
	Artifacts     Artifacts     `toml:"artifacts"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sleuth/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/sleuth/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sleuth.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for running lookups. The
// artifacts directory is only created when captures are enabled.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Artifacts.Enabled && strings.TrimSpace(c.Artifacts.Dir) != "" {
		if err := os.MkdirAll(c.Artifacts.Dir, 0o755); err != nil {
			return fmt.Errorf("create artifacts directory %q: %w", c.Artifacts.Dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultArtifactsDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "sleuth", "captures")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/sleuth/captures"
	}
	return filepath.Join(home, ".cache", "sleuth", "captures")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
