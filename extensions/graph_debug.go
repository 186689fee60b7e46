package extensions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lensdock/injectable"
)

// GraphDebugExtension logs the dependency tree when an injection fails.
//
// Usage:
//
//	// Human-readable formatted output (with line breaks)
//	handler := extensions.NewHumanHandler(os.Stderr, slog.LevelError)
//	ext := extensions.NewGraphDebugExtension(handler)
//
//	// Structured JSON logging (compact, machine-readable)
//	handler := slog.NewJSONHandler(logFile, nil)
//	ext := extensions.NewGraphDebugExtension(handler)
//
//	// Silent (for testing)
//	ext := extensions.NewGraphDebugExtension(extensions.NewSilentHandler())
//
// The extension logs at ERROR level.
type GraphDebugExtension struct {
	injectable.BaseExtension

	// Track definitions as they're resolved
	resolved map[string]bool
	failed   map[string]error
	logger   *slog.Logger
}

// NewGraphDebugExtension creates a new graph debug extension.
// logHandler: slog.Handler for logging (use HumanHandler for formatted output, or any other slog.Handler)
func NewGraphDebugExtension(logHandler slog.Handler) *GraphDebugExtension {
	return &GraphDebugExtension{
		BaseExtension: injectable.NewBaseExtension("graph-debug"),
		resolved:      make(map[string]bool),
		failed:        make(map[string]error),
		logger:        slog.New(logHandler),
	}
}

// Wrap tracks injections for debugging
func (e *GraphDebugExtension) Wrap(ctx context.Context, next func() (any, error), op *injectable.Operation) (any, error) {
	result, err := next()

	if op.Kind != injectable.OpInject {
		return result, err
	}
	id := op.Definition.ID()
	if err == nil {
		e.resolved[id] = true
		delete(e.failed, id)
	} else {
		e.failed[id] = err
	}

	return result, err
}

// OnError logs the dependency tree when an injection fails. Failures of
// nested injections are reported once, by the definition that failed first.
func (e *GraphDebugExtension) OnError(err error, op *injectable.Operation, c *injectable.Container) {
	if op.Kind != injectable.OpInject {
		return
	}
	if op.Parent != "" {
		if _, parentFailed := e.failed[op.Parent]; !parentFailed && !e.resolved[op.Parent] {
			// the parent is still resolving and will report the tree itself
			return
		}
	}

	e.logger.Error("Dependency Resolution Error",
		"definition", injectable.DisplayName(op.Definition),
		"error", err.Error(),
		"operation", string(op.Kind),
		"dependency_graph", e.formatDependencyGraph(c, op.Definition.ID()),
	)
}

// Status returns the marker the extension shows next to id.
func (e *GraphDebugExtension) Status(id string) string {
	switch {
	case e.resolved[id]:
		return "✓"
	case e.failed[id] != nil:
		return "❌"
	default:
		return "pending"
	}
}

func (e *GraphDebugExtension) formatDependencyGraph(c *injectable.Container, failedID string) string {
	var sb strings.Builder

	sb.WriteString(RenderDependencyTree(c, func(id string) string {
		if id == failedID {
			return id + " ❌ FAILED"
		}
		return id + " " + e.Status(id)
	}))

	if failedErr := e.failed[failedID]; failedErr != nil {
		sb.WriteString("\nError Details:\n")
		sb.WriteString(fmt.Sprintf("  Definition: %s\n", failedID))
		sb.WriteString(fmt.Sprintf("  Error: %v\n", failedErr))
	}

	return sb.String()
}

// SilentHandler is a slog.Handler that discards all log output
// Useful for testing when you don't want log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false // Never enabled, discards everything
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil // Do nothing
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h // Return self, no state to modify
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h // Return self, no state to modify
}

// HumanHandler is a slog.Handler that formats logs for human readability
// with proper line breaks and visual formatting (especially for dependency graphs)
type HumanHandler struct {
	writer io.Writer
	level  slog.Level
}

// NewHumanHandler creates a new human-readable log handler
func NewHumanHandler(writer io.Writer, level slog.Level) *HumanHandler {
	return &HumanHandler{
		writer: writer,
		level:  level,
	}
}

func (h *HumanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *HumanHandler) Handle(ctx context.Context, record slog.Record) error {
	// Special formatting for GraphDebug messages
	switch record.Message {
	case "Dependency Resolution Error":
		return h.handleDependencyError(record)
	}

	// Default formatting for other messages
	if _, err := fmt.Fprintf(h.writer, "[%s] %s\n", record.Level, record.Message); err != nil {
		return err
	}
	var writeErr error
	record.Attrs(func(a slog.Attr) bool {
		if _, err := fmt.Fprintf(h.writer, "  %s: %v\n", a.Key, a.Value); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	return writeErr
}

func (h *HumanHandler) handleDependencyError(record slog.Record) error {
	var definition, errorMsg, operation, dependencyGraph string

	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "definition":
			definition = a.Value.String()
		case "error":
			errorMsg = a.Value.String()
		case "operation":
			operation = a.Value.String()
		case "dependency_graph":
			dependencyGraph = a.Value.String()
		}
		return true
	})

	writes := []func() error{
		func() error { _, err := fmt.Fprintln(h.writer); return err },
		func() error { _, err := fmt.Fprintln(h.writer, strings.Repeat("=", 70)); return err },
		func() error { _, err := fmt.Fprintln(h.writer, "[GraphDebug] Dependency Resolution Error"); return err },
		func() error { _, err := fmt.Fprintln(h.writer, strings.Repeat("=", 70)); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "\nFailed Definition: %s\n", definition); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "Error: %s\n", errorMsg); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "Operation: %s\n", operation); return err },
		func() error {
			_, err := fmt.Fprintf(h.writer, "\nDependency Graph:\n%s\n", dependencyGraph)
			return err
		},
		func() error { _, err := fmt.Fprintln(h.writer, strings.Repeat("=", 70)); return err },
		func() error { _, err := fmt.Fprintln(h.writer); return err },
	}

	for _, write := range writes {
		if err := write(); err != nil {
			return err
		}
	}

	return nil
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// For simplicity, return self (could create new handler with attrs if needed)
	return h
}

func (h *HumanHandler) WithGroup(name string) slog.Handler {
	// For simplicity, return self (could create new handler with group if needed)
	return h
}
