package logging

import (
	"context"
	"log/slog"
)

// floorHandler drops records below a minimum level before delegating to the
// wrapped handler. The CLI builds its handlers debug-capable and moves this
// floor at runtime: the configured level normally, debug under --verbose.
type floorHandler struct {
	next  slog.Handler
	floor slog.Level
}

func newFloorHandler(next slog.Handler, floor slog.Level) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	return &floorHandler{next: next, floor: floor}
}

func (h *floorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.floor && h.next.Enabled(ctx, level)
}

func (h *floorHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.floor {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *floorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &floorHandler{next: h.next.WithAttrs(attrs), floor: h.floor}
}

func (h *floorHandler) WithGroup(name string) slog.Handler {
	return &floorHandler{next: h.next.WithGroup(name), floor: h.floor}
}

// CloneWithLevel re-floors without stacking another wrapper, so repeated
// overrides stay one handler deep.
func (h *floorHandler) CloneWithLevel(level slog.Level) slog.Handler {
	return &floorHandler{next: h.next, floor: level}
}

// WithLevelOverride returns a logger that suppresses records below level
// while keeping the underlying handler wiring and attributes. The wrapped
// handler still applies its own level, so an override can only restrict
// output further; callers wanting a lower floor must build the handler at
// that level first.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		return slog.New(newFloorHandler(nil, level))
	}
	if cloner, ok := logger.Handler().(interface{ CloneWithLevel(slog.Level) slog.Handler }); ok {
		return slog.New(cloner.CloneWithLevel(level))
	}
	return slog.New(newFloorHandler(logger.Handler(), level))
}
