package extensions

import (
	"context"
	"log/slog"
	"time"

	"github.com/lensdock/injectable"
)

// LoggingExtension logs every injection and cleanup failure through slog.
type LoggingExtension struct {
	injectable.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a new logging extension
func NewLoggingExtension(logger *slog.Logger) *LoggingExtension {
	if logger == nil {
		logger = slog.New(NewSilentHandler())
	}
	return &LoggingExtension{
		BaseExtension: injectable.NewBaseExtension("logging"),
		logger:        logger.With("component", "injectable"),
	}
}

// Order runs logging outside every other extension so durations include them.
func (e *LoggingExtension) Order() int {
	return 10
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func() (any, error), op *injectable.Operation) (any, error) {
	attrs := []any{"op", string(op.Kind)}
	if op.Definition != nil {
		attrs = append(attrs, "id", op.Definition.ID())
	}
	if op.TokenID != "" {
		attrs = append(attrs, "token", op.TokenID)
	}
	if op.Parent != "" {
		attrs = append(attrs, "parent", op.Parent)
	}

	start := time.Now()
	e.logger.DebugContext(ctx, "starting", attrs...)
	result, err := next()

	attrs = append(attrs, "duration", time.Since(start))
	if err != nil {
		e.logger.ErrorContext(ctx, "failed", append(attrs, "error", err)...)
	} else {
		e.logger.DebugContext(ctx, "completed", attrs...)
	}

	return result, err
}

func (e *LoggingExtension) OnCleanupError(err *injectable.CleanupError) bool {
	e.logger.Warn("cleanup failed", "id", err.ID, "context", err.Context, "error", err.Err)
	return false
}

func (e *LoggingExtension) Dispose(c *injectable.Container) error {
	e.logger.Info("container disposed", "container", c.ID(), "resolved", len(c.Resolved()))
	return nil
}
