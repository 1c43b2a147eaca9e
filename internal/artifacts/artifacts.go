// Package artifacts persists rendered result documents for debugging.
//
// Capture is an explicit capability: the batch orchestrator receives a Sink
// and never consults configuration directly, so tests and callers decide
// whether documents are kept. Discard is the disabled sink.
package artifacts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sleuth/internal/config"
	"sleuth/internal/logging"
	"sleuth/internal/textutil"
)

// CaptureSuffix is the file suffix for stored result documents. The replay
// driver reads the same naming, so one run's captures feed the next run's
// replays.
const CaptureSuffix = "_results.html"

// Sink receives one rendered document per completed lookup.
type Sink interface {
	Capture(ctx context.Context, query, document string) error
}

// Discard drops every capture.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Capture(context.Context, string, string) error { return nil }

// DirSink writes captures into a directory, one file per query.
type DirSink struct {
	dir    string
	logger *slog.Logger
}

var _ Sink = (*DirSink)(nil)

// NewDirSink builds a sink writing into dir, creating it when missing.
func NewDirSink(dir string, logger *slog.Logger) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}
	return &DirSink{dir: dir, logger: logging.NewComponentLogger(logger, "artifacts")}, nil
}

// Capture writes the document as <sanitized query>_results.html, overwriting
// any previous capture for the same query.
func (s *DirSink) Capture(ctx context.Context, query, document string) error {
	name := textutil.SanitizeFileName(query)
	if name == "" {
		name = "capture"
	}
	path := filepath.Join(s.dir, name+CaptureSuffix)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	s.logger.DebugContext(ctx, "capture written",
		logging.Args(
			logging.String("path", path),
			logging.Int("document_bytes", len(document)),
		)...)
	return nil
}

// FromConfig returns the sink selected by configuration: a DirSink when
// captures are enabled, Discard otherwise.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Sink, error) {
	if !cfg.Artifacts.Enabled {
		return Discard, nil
	}
	return NewDirSink(cfg.Artifacts.Dir, logger)
}
