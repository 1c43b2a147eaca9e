package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePortal(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePortal() error {
	url := strings.TrimSpace(c.Portal.URL)
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("portal.url must start with http:// or https://, got %q", url)
	}
	if strings.TrimSpace(c.Portal.SearchInput) == "" {
		return errors.New("portal.search_input must be set")
	}
	return nil
}

func (c *Config) validateSession() error {
	return ensurePositiveMap(map[string]int{
		"session.navigation_timeout": c.Session.NavigationTimeout,
		"session.input_timeout":      c.Session.InputTimeout,
		"session.result_timeout":     c.Session.ResultTimeout,
		"session.poll_interval_ms":   c.Session.PollIntervalMS,
	})
}

func (c *Config) validateBatch() error {
	if err := ensurePositiveMap(map[string]int{
		"batch.batch_size":      c.Batch.BatchSize,
		"batch.max_concurrent":  c.Batch.MaxConcurrent,
		"batch.extract_workers": c.Batch.ExtractWorkers,
	}); err != nil {
		return err
	}
	if c.Batch.BatchPause < 0 {
		return errors.New("batch.batch_pause must be >= 0")
	}
	if c.Batch.SubmitRate < 0 {
		return errors.New("batch.submit_rate must be >= 0")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.JournalEnabled && strings.TrimSpace(c.Storage.DatabasePath) == "" {
		return errors.New("storage.database_path must be set when storage.journal_enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
