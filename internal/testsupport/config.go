package testsupport

import (
	"path/filepath"
	"testing"

	"sleuth/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Session timeouts and pacing shrink so polling loops resolve quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "reports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Portal.URL = "https://portal.example/search"
	cfgVal.Session.NavigationTimeout = 1
	cfgVal.Session.InputTimeout = 1
	cfgVal.Session.ResultTimeout = 1
	cfgVal.Session.PollIntervalMS = 5
	cfgVal.Batch.BatchPause = 0
	cfgVal.Storage.DatabasePath = filepath.Join(base, "data", "journal.db")
	cfgVal.Artifacts.Dir = filepath.Join(base, "captures")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithPortalURL overrides the portal URL on the test config.
func WithPortalURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Portal.URL = url
	}
}

// WithJournalDisabled turns off run journaling.
func WithJournalDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.JournalEnabled = false
	}
}

// WithArtifacts enables the capture sink under the config's capture dir.
func WithArtifacts() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Artifacts.Enabled = true
	}
}

// WithBatchShape sets orchestrator sizing for concurrency tests.
func WithBatchShape(batchSize, maxConcurrent int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.BatchSize = batchSize
		b.cfg.Batch.MaxConcurrent = maxConcurrent
	}
}

// WithSubmitRate paces session starts at the given per-second rate.
func WithSubmitRate(perSecond float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.SubmitRate = perSecond
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
