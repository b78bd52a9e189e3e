package otel

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

type otelMetrics struct {
	meter metric.Meter
}

// Instrument creation only fails on invalid names; those fall back to no-op
// instruments so a bad name never breaks a transaction.

func (m *otelMetrics) Counter(name, description, unit string) observability.Counter {
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		counter = noop.Int64Counter{}
	}
	return &otelCounter{counter: counter}
}

func (m *otelMetrics) Histogram(name, description, unit string) observability.Histogram {
	histogram, err := m.meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		histogram = noop.Float64Histogram{}
	}
	return &otelHistogram{histogram: histogram}
}

func (m *otelMetrics) UpDownCounter(name, description, unit string) observability.UpDownCounter {
	counter, err := m.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		counter = noop.Int64UpDownCounter{}
	}
	return &otelUpDownCounter{counter: counter}
}

type otelCounter struct {
	counter metric.Int64Counter
}

func (c *otelCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	c.counter.Add(ctx, value, metric.WithAttributes(toAttributes(fields)...))
}

func (c *otelCounter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}

type otelHistogram struct {
	histogram metric.Float64Histogram
}

func (h *otelHistogram) Record(ctx context.Context, value float64, fields ...observability.Field) {
	h.histogram.Record(ctx, value, metric.WithAttributes(toAttributes(fields)...))
}

type otelUpDownCounter struct {
	counter metric.Int64UpDownCounter
}

func (u *otelUpDownCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	u.counter.Add(ctx, value, metric.WithAttributes(toAttributes(fields)...))
}
