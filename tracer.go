package jwtgate

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// SpanVerify is the name of the span wrapping each verification.
const SpanVerify = "jwtgate.verify"

// Tracer is a generic tracing interface for the middleware.
type Tracer interface {
	StartSpan(ctx context.Context, operationName string) (context.Context, Span)
}

// Span is the subset of span behaviour the gate uses.
type Span interface {
	Finish()
	SetTag(key string, value any)
}

// NoopTracer is a default tracer that does nothing.
type NoopTracer struct{}

func (t *NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, &NoopSpan{}
}

type NoopSpan struct{}

func (s *NoopSpan) Finish()                      {}
func (s *NoopSpan) SetTag(key string, value any) {}

// OpenTelemetryTracer implements the Tracer interface using OpenTelemetry.
type OpenTelemetryTracer struct {
	tracer oteltrace.Tracer
}

func NewOpenTelemetryTracer(tracer oteltrace.Tracer) Tracer {
	return &OpenTelemetryTracer{tracer: tracer}
}

func (t *OpenTelemetryTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, operationName)
	return ctx, &OpenTelemetrySpan{span: span}
}

// OpenTelemetrySpan implements the Span interface using OpenTelemetry.
type OpenTelemetrySpan struct {
	span oteltrace.Span
}

func (s *OpenTelemetrySpan) Finish() {
	s.span.End()
}

func (s *OpenTelemetrySpan) SetTag(key string, value any) {
	switch v := value.(type) {
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprint(value)))
	}
}
