package observability

import "context"

// Tracer creates spans.
type Tracer interface {
	// Start creates a span and returns a context carrying it. Callers must End the span.
	Start(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
}

// Span is an active trace span.
type Span interface {
	End()
	SetAttributes(fields ...Field)
	SetStatus(code StatusCode, description string)
	RecordError(err error, fields ...Field)
	AddEvent(name string, fields ...Field)
	Context() SpanContext
}

// SpanContext identifies a span for log correlation.
type SpanContext interface {
	TraceID() string
	SpanID() string
}

type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOK
	StatusCodeError
)

type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindClient
)

// SpanOption configures span creation.
type SpanOption func(*SpanConfig)

// SpanConfig is the resolved set of span options, read by backends.
type SpanConfig struct {
	Kind       SpanKind
	Attributes []Field
}

func WithSpanKind(kind SpanKind) SpanOption {
	return func(c *SpanConfig) {
		c.Kind = kind
	}
}

func WithAttributes(fields ...Field) SpanOption {
	return func(c *SpanConfig) {
		c.Attributes = append(c.Attributes, fields...)
	}
}

// NewSpanConfig applies opts over the defaults.
func NewSpanConfig(opts []SpanOption) SpanConfig {
	cfg := SpanConfig{Kind: SpanKindInternal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
