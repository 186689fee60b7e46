package extensions

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lensdock/injectable"
)

// Span attribute keys used by TracingExtension.
const (
	AttrDefinitionID      = "injectable.id"
	AttrDefinitionName    = "injectable.name"
	AttrParentID          = "injectable.parent"
	AttrTokenID           = "injectable.token"
	AttrCausesSideEffects = "injectable.causes_side_effects"
	AttrLifecycle         = "injectable.lifecycle"
	AttrContainerID       = "injectable.container"
)

// TracingExtension opens one span per injection. Nested injections become
// child spans of the injection that requested them.
type TracingExtension struct {
	injectable.BaseExtension
	tracer trace.Tracer
	stack  []context.Context
}

// NewTracingExtension creates a tracing extension. A nil tracer makes Wrap a
// pass-through.
func NewTracingExtension(tracer trace.Tracer) *TracingExtension {
	return &TracingExtension{
		BaseExtension: injectable.NewBaseExtension("tracing"),
		tracer:        tracer,
	}
}

// Order places tracing just inside logging.
func (e *TracingExtension) Order() int {
	return 20
}

func (e *TracingExtension) Wrap(ctx context.Context, next func() (any, error), op *injectable.Operation) (any, error) {
	if e.tracer == nil {
		return next()
	}

	parent := ctx
	if len(e.stack) > 0 {
		parent = e.stack[len(e.stack)-1]
	}

	name, attrs := spanFor(op)
	spanCtx, span := e.tracer.Start(parent, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	e.stack = append(e.stack, spanCtx)
	result, err := next()
	e.stack = e.stack[:len(e.stack)-1]

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return result, err
}

func spanFor(op *injectable.Operation) (string, []attribute.KeyValue) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrContainerID, op.Container.ID()),
	}

	if op.Kind == injectable.OpInjectMany {
		attrs = append(attrs, attribute.String(AttrTokenID, op.TokenID))
		return "inject-many " + op.TokenID, attrs
	}

	def := op.Definition
	attrs = append(attrs,
		attribute.String(AttrDefinitionID, def.ID()),
		attribute.String(AttrDefinitionName, injectable.DisplayName(def)),
		attribute.Bool(AttrCausesSideEffects, def.CausesSideEffects()),
		attribute.String(AttrLifecycle, string(def.Lifecycle())),
	)
	if op.Parent != "" {
		attrs = append(attrs, attribute.String(AttrParentID, op.Parent))
	}
	if token := def.TokenID(); token != "" {
		attrs = append(attrs, attribute.String(AttrTokenID, token))
	}
	return "inject " + def.ID(), attrs
}
