package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePortal()
	c.normalizeSession()
	c.normalizeBatch()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	if err := c.normalizeArtifacts(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePortal() {
	c.Portal.URL = strings.TrimSpace(c.Portal.URL)
	c.Portal.SearchInput = strings.TrimSpace(c.Portal.SearchInput)
	if c.Portal.SearchInput == "" {
		c.Portal.SearchInput = defaultSearchInput
	}
	c.Portal.ConsentButtonText = strings.TrimSpace(c.Portal.ConsentButtonText)
	if c.Portal.ConsentButtonText == "" {
		c.Portal.ConsentButtonText = defaultConsentButtonText
	}
}

func (c *Config) normalizeSession() {
	if c.Session.NavigationTimeout <= 0 {
		c.Session.NavigationTimeout = defaultNavigationTimeout
	}
	if c.Session.InputTimeout <= 0 {
		c.Session.InputTimeout = defaultInputTimeout
	}
	if c.Session.ResultTimeout <= 0 {
		c.Session.ResultTimeout = defaultResultTimeout
	}
	if c.Session.PollIntervalMS <= 0 {
		c.Session.PollIntervalMS = defaultPollIntervalMS
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.BatchSize <= 0 {
		c.Batch.BatchSize = defaultBatchSize
	}
	if c.Batch.MaxConcurrent <= 0 {
		c.Batch.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Batch.BatchPause < 0 {
		c.Batch.BatchPause = 0
	}
	if c.Batch.SubmitRate < 0 {
		c.Batch.SubmitRate = 0
	}
	if c.Batch.ExtractWorkers <= 0 {
		c.Batch.ExtractWorkers = defaultExtractWorkers
	}
}

func (c *Config) normalizeStorage() error {
	var err error
	if strings.TrimSpace(c.Storage.DatabasePath) == "" {
		c.Storage.DatabasePath = filepath.Join(c.Paths.DataDir, "journal.db")
	}
	if c.Storage.DatabasePath, err = expandPath(c.Storage.DatabasePath); err != nil {
		return fmt.Errorf("storage.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeArtifacts() error {
	var err error
	if strings.TrimSpace(c.Artifacts.Dir) == "" {
		c.Artifacts.Dir = defaultArtifactsDir()
	}
	if c.Artifacts.Dir, err = expandPath(c.Artifacts.Dir); err != nil {
		return fmt.Errorf("artifacts.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
