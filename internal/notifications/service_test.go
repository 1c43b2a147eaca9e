package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sleuth/internal/config"
	"sleuth/internal/notifications"
)

type recordedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newNtfyConfig(endpoint string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = endpoint
	cfg.Notifications.RunEvents = true
	cfg.Notifications.Errors = true
	return &cfg
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), "run", 3); err != nil {
		t.Fatalf("noop notifier returned %v", err)
	}
}

func TestNtfyServiceFormatsRunEvents(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK)
	svc := notifications.NewService(newNtfyConfig(server.URL))
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "3c9f2a10-aaaa-bbbb-cccc-ddddeeeeffff", 12); err != nil {
		t.Fatalf("NotifyRunStarted() error = %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "3c9f2a10-aaaa-bbbb-cccc-ddddeeeeffff", 12, 7, 2, 95*time.Second); err != nil {
		t.Fatalf("NotifyRunCompleted() error = %v", err)
	}
	if err := svc.NotifyLookupFailed(ctx, "Acme Holdings", "navigation timeout"); err != nil {
		t.Fatalf("NotifyLookupFailed() error = %v", err)
	}

	got := *requests
	if len(got) != 3 {
		t.Fatalf("recorded %d requests, want 3", len(got))
	}
	if got[0].title != "Sleuth - Run Started" || !strings.Contains(got[0].body, "12 names") {
		t.Errorf("run started = %+v", got[0])
	}
	if !strings.Contains(got[0].body, "3c9f2a10") || strings.Contains(got[0].body, "aaaa") {
		t.Errorf("run id not shortened: %q", got[0].body)
	}
	if got[1].priority != "high" || !strings.Contains(got[1].body, "7 matched") || !strings.Contains(got[1].body, "2 failed") {
		t.Errorf("run completed = %+v", got[1])
	}
	if got[2].tags != "sleuth,lookup,failed" || !strings.Contains(got[2].body, "navigation timeout") {
		t.Errorf("lookup failed = %+v", got[2])
	}
}

func TestNtfyServiceGatesEvents(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK)
	cfg := newNtfyConfig(server.URL)
	cfg.Notifications.RunEvents = false
	cfg.Notifications.Errors = false
	svc := notifications.NewService(cfg)
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "run", 3); err != nil {
		t.Fatalf("NotifyRunStarted() error = %v", err)
	}
	if err := svc.NotifyLookupFailed(ctx, "Acme", "timeout"); err != nil {
		t.Fatalf("NotifyLookupFailed() error = %v", err)
	}
	if len(*requests) != 0 {
		t.Errorf("recorded %d requests, want 0 when gated", len(*requests))
	}
}

func TestNtfyServiceReportsHTTPFailures(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusBadGateway)
	svc := notifications.NewService(newNtfyConfig(server.URL))
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("TestNotification() succeeded against failing server, want error")
	}
}
