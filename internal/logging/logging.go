// Package logging builds the application logger. The terminal belongs to the
// UI, so log records go to a file and nowhere else.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/extensions"
	"github.com/lensdock/injectable/internal/config"
)

// New opens the log file described by cfg. The returned close function
// releases the file. A disabled config yields a logger that discards every
// record.
func New(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if !cfg.Enabled {
		return Discard(), func() error { return nil }, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	path := filepath.Clean(cfg.Path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // user configured debug log path
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger.With("app", "lensdock"), f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(extensions.NewSilentHandler())
}

// LoggerInjectable provides the application logger. The composition root
// overrides it with the logger built from configuration.
var LoggerInjectable = injectable.Define("logger", func(ctx *injectable.ResolveCtx) (*slog.Logger, error) {
	return Discard(), nil
})

// For returns the logger scoped to one feature.
func For(r injectable.Resolver, feature string) *slog.Logger {
	logger, err := injectable.Inject(r, LoggerInjectable)
	if err != nil {
		return Discard()
	}
	return logger.With("feature", feature)
}
