// Package app is the composition root: it registers every feature module
// into one container and wires the extensions the configuration asks for.
package app

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/extensions"
	"github.com/lensdock/injectable/internal/config"
	"github.com/lensdock/injectable/internal/dock"
	"github.com/lensdock/injectable/internal/kube"
	"github.com/lensdock/injectable/internal/lenslink"
	"github.com/lensdock/injectable/internal/logging"
	"github.com/lensdock/injectable/internal/namespaces"
	"github.com/lensdock/injectable/internal/workloads"
)

// VersionTag carries the application version on the container.
var VersionTag = injectable.NewTag[string]("lensdock.version")

// Options configures New.
type Options struct {
	Config  config.Config
	Version string
	// Logger receives injection and dependency resolution logs. Nil
	// discards them.
	Logger *slog.Logger
	// Tracer records one span per injection. Nil disables tracing.
	Tracer trace.Tracer
	// Sandbox refuses to run side-effecting definitions, for tests and
	// offline commands.
	Sandbox bool
}

// Modules returns every module of the application in registration order.
// The order of tab modules is the order of the tabs in the dock.
func Modules() []injectable.Module {
	return []injectable.Module{
		injectable.NewModule("core", config.StateInjectable, logging.LoggerInjectable),
		kube.Module,
		dock.Module,
		workloads.Module,
		namespaces.Module,
		lenslink.Module,
	}
}

// New builds the application container.
func New(opts Options) (*injectable.Container, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	containerOpts := []injectable.ContainerOption{
		injectable.WithContainerTag(VersionTag, opts.Version),
		injectable.WithExtension(extensions.NewLoggingExtension(logger)),
		injectable.WithExtension(extensions.NewGraphDebugExtension(logger.Handler())),
	}
	if opts.Tracer != nil {
		containerOpts = append(containerOpts, injectable.WithExtension(extensions.NewTracingExtension(opts.Tracer)))
	}
	if opts.Sandbox {
		containerOpts = append(containerOpts, injectable.PreventSideEffects())
	}

	c := injectable.NewContainer(containerOpts...)
	if err := c.RegisterModules(Modules()...); err != nil {
		_ = c.Dispose()
		return nil, err
	}
	if err := injectable.OverrideValue(c, logging.LoggerInjectable, logger); err != nil {
		_ = c.Dispose()
		return nil, err
	}

	state, err := injectable.Inject(c, config.StateInjectable)
	if err != nil {
		_ = c.Dispose()
		return nil, fmt.Errorf("applying config: %w", err)
	}
	state.Set(opts.Config)

	return c, nil
}
