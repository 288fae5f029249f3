package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans against the globally registered provider. With no
// provider registered every call is a cheap no-op.
type Tracer interface {
	Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
	FromContext(ctx context.Context) Span
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer creates a named tracer.
func NewTracer(name string) Tracer {
	return &otelTracer{tracer: otel.Tracer(name)}
}

func (t *otelTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, newSpan(span)
}

func (t *otelTracer) FromContext(ctx context.Context) Span {
	return newSpan(trace.SpanFromContext(ctx))
}
