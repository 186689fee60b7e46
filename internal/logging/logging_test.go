package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/config"
)

func TestNew_DisabledDiscards(t *testing.T) {
	logger, closeFn, err := New(config.LogConfig{Enabled: false, Path: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	defer closeFn()

	logger.Error("dropped")
	assert.False(t, logger.Enabled(t.Context(), 100))
}

func TestNew_WritesAtConfiguredLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lensdock.log")
	logger, closeFn, err := New(config.LogConfig{Enabled: true, Path: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "tab", "workloads")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "tab=workloads")
	assert.Contains(t, out, "app=lensdock")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	require.Error(t, err)
}

func TestFor_UsesOverriddenLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closeFn, err := New(config.LogConfig{Enabled: true, Path: path, Level: "debug"})
	require.NoError(t, err)

	c := injectable.NewContainer()
	defer c.Dispose()
	require.NoError(t, c.Register(LoggerInjectable))
	require.NoError(t, injectable.OverrideValue(c, LoggerInjectable, logger))

	For(c, "dock").Debug("activated")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "feature=dock")
}

func TestFor_UnregisteredLoggerFallsBackToDiscard(t *testing.T) {
	c := injectable.NewContainer()
	defer c.Dispose()

	assert.NotPanics(t, func() { For(c, "dock").Info("nothing") })
}
