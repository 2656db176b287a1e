package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans on the global tracer provider installed by NewTraceProvider.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
}

// Span is the subset of trace.Span the transport layer needs.
type Span interface {
	SetAttributes(values ...attribute.KeyValue)
	NoticeError(err error)
	// TraceID is empty when the span is not sampled.
	TraceID() string
	End(options ...trace.SpanEndOption)
}

type openTracer struct {
	tracer trace.Tracer
}

func NewTracer(name string) Tracer {
	return &openTracer{otel.Tracer(name)}
}

func (t *openTracer) StartSpanFromContext(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, &traceSpan{span}
}

type traceSpan struct {
	span trace.Span
}

func (t *traceSpan) SetAttributes(values ...attribute.KeyValue) {
	t.span.SetAttributes(values...)
}

// NoticeError records err and marks the span failed.
func (t *traceSpan) NoticeError(err error) {
	t.span.RecordError(err)
	t.span.SetStatus(codes.Error, err.Error())
}

func (t *traceSpan) TraceID() string {
	sc := t.span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func (t *traceSpan) End(options ...trace.SpanEndOption) {
	t.span.End(options...)
}
