package otel

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

type otelTracer struct {
	tracer oteltrace.Tracer
}

func (t *otelTracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	cfg := observability.NewSpanConfig(opts)

	startOpts := []oteltrace.SpanStartOption{oteltrace.WithSpanKind(convertSpanKind(cfg.Kind))}
	if attrs := toAttributes(cfg.Attributes); attrs != nil {
		startOpts = append(startOpts, oteltrace.WithAttributes(attrs...))
	}

	ctx, span := t.tracer.Start(ctx, spanName, startOpts...)
	return ctx, &otelSpan{span: span}
}

// SpanFromContext returns a non-recording span when ctx carries none.
func (t *otelTracer) SpanFromContext(ctx context.Context) observability.Span {
	return &otelSpan{span: oteltrace.SpanFromContext(ctx)}
}

type otelSpan struct {
	span oteltrace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttributes(fields ...observability.Field) {
	if attrs := toAttributes(fields); attrs != nil {
		s.span.SetAttributes(attrs...)
	}
}

func (s *otelSpan) SetStatus(code observability.StatusCode, description string) {
	s.span.SetStatus(convertStatusCode(code), description)
}

func (s *otelSpan) RecordError(err error, fields ...observability.Field) {
	s.span.RecordError(err, oteltrace.WithAttributes(toAttributes(fields)...))
}

func (s *otelSpan) AddEvent(name string, fields ...observability.Field) {
	s.span.AddEvent(name, oteltrace.WithAttributes(toAttributes(fields)...))
}

func (s *otelSpan) Context() observability.SpanContext {
	return spanContext{sc: s.span.SpanContext()}
}

type spanContext struct {
	sc oteltrace.SpanContext
}

func (c spanContext) TraceID() string { return c.sc.TraceID().String() }
func (c spanContext) SpanID() string { return c.sc.SpanID().String() }

func convertSpanKind(kind observability.SpanKind) oteltrace.SpanKind {
	if kind == observability.SpanKindClient {
		return oteltrace.SpanKindClient
	}
	return oteltrace.SpanKindInternal
}

func convertStatusCode(code observability.StatusCode) codes.Code {
	switch code {
	case observability.StatusCodeOK:
		return codes.Ok
	case observability.StatusCodeError:
		return codes.Error
	default:
		return codes.Unset
	}
}
