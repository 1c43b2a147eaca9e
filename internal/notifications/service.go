package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sleuth/internal/config"
)

const userAgent = "Sleuth/0.1.0"

// Service defines the notification surface exposed to the batch orchestrator
// and the CLI.
type Service interface {
	NotifyRunStarted(ctx context.Context, runID string, total int) error
	NotifyRunCompleted(ctx context.Context, runID string, processed, matched, failed int, duration time.Duration) error
	NotifyLookupFailed(ctx context.Context, query, cause string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		runEvents: cfg.Notifications.RunEvents,
		failures:  cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	runEvents bool
	failures  bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, runID string, total int) error {
	if !n.runEvents {
		return nil
	}
	data := payload{
		title:   "Sleuth - Run Started",
		message: fmt.Sprintf("Looking up %d names (run %s)", total, shortRunID(runID)),
		tags:    []string{"sleuth", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, runID string, processed, matched, failed int, duration time.Duration) error {
	if !n.runEvents {
		return nil
	}
	data := payload{
		title: "Sleuth - Run Complete",
		message: fmt.Sprintf("Run %s: %d processed, %d matched, %d failed in %s",
			shortRunID(runID), processed, matched, failed, duration.Round(time.Second)),
		tags: []string{"sleuth", "run", "completed"},
	}
	if failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLookupFailed(ctx context.Context, query, cause string) error {
	if !n.failures {
		return nil
	}
	query = strings.TrimSpace(query)
	cause = strings.TrimSpace(cause)
	if cause == "" {
		cause = "unknown"
	}
	data := payload{
		title:    "Sleuth - Lookup Failed",
		message:  fmt.Sprintf("%q: %s", query, cause),
		tags:     []string{"sleuth", "lookup", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Sleuth - Test",
		message:  "Notification system test",
		tags:     []string{"sleuth", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// shortRunID trims a uuid to its first group for notification copy.
func shortRunID(runID string) string {
	runID = strings.TrimSpace(runID)
	if i := strings.IndexByte(runID, '-'); i > 0 {
		return runID[:i]
	}
	return runID
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int) error { return nil }

func (noopService) NotifyRunCompleted(context.Context, string, int, int, int, time.Duration) error {
	return nil
}

func (noopService) NotifyLookupFailed(context.Context, string, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
