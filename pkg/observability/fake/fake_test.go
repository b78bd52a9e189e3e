package fake_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/txkit/pkg/observability"
	"github.com/JailtonJunior94/txkit/pkg/observability/fake"
)

func TestFakeTracer_CapturesSpans(t *testing.T) {
	provider := fake.NewProvider()
	ctx, span := provider.Tracer().Start(context.Background(), observability.SpanExecute,
		observability.WithSpanKind(observability.SpanKindClient),
		observability.WithAttributes(observability.TxID("tx-1")),
	)

	boom := errors.New("boom")
	span.RecordError(boom)
	span.SetStatus(observability.StatusCodeError, "rolled back")
	span.AddEvent("rollback")
	span.End()

	spans := provider.FakeTracer().GetSpans()
	require.Len(t, spans, 1)
	captured := spans[0]
	assert.Equal(t, observability.SpanExecute, captured.Name)
	assert.Equal(t, observability.SpanKindClient, captured.Kind)
	assert.True(t, captured.Ended())
	assert.Same(t, boom, captured.RecordedErr)
	assert.Equal(t, observability.StatusCodeError, captured.Status)
	require.Len(t, captured.Events, 1)

	v, ok := fake.FieldValue(captured.Attributes, "tx.id")
	require.True(t, ok)
	assert.Equal(t, "tx-1", v)

	assert.Same(t, captured, provider.Tracer().SpanFromContext(ctx))
}

func TestFakeLogger_WithSharesEntries(t *testing.T) {
	provider := fake.NewProvider()
	ctx := context.Background()

	child := provider.Logger().With(observability.TxID("tx-1"))
	child.Debug(ctx, "transaction started")
	provider.Logger().Error(ctx, "rollback failed", observability.Error(errors.New("x")))

	entries := provider.FakeLogger().GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, observability.LogLevelDebug, entries[0].Level)
	v, ok := fake.FieldValue(entries[0].Fields, "tx.id")
	require.True(t, ok)
	assert.Equal(t, "tx-1", v)

	_, ok = fake.FieldValue(entries[1].Fields, "tx.id")
	assert.False(t, ok)
	assert.Len(t, provider.FakeLogger().GetEntriesByLevel(observability.LogLevelError), 1)

	provider.FakeLogger().Reset()
	assert.Empty(t, provider.FakeLogger().GetEntries())
}

func TestFakeMetrics_ReturnsSameInstrument(t *testing.T) {
	provider := fake.NewProvider()
	ctx := context.Background()
	m := provider.Metrics()

	m.Counter(observability.MetricTransactions, "transactions", "1").Increment(ctx, observability.Outcome(observability.OutcomeCommitted))
	m.Counter(observability.MetricTransactions, "transactions", "1").Add(ctx, 2)
	m.UpDownCounter(observability.MetricActiveTransactions, "open", "1").Add(ctx, 1)
	m.UpDownCounter(observability.MetricActiveTransactions, "open", "1").Add(ctx, -1)
	m.Histogram(observability.MetricTransactionDuration, "duration", "ms").Record(ctx, 12.5)

	counter := provider.FakeMetrics().GetCounter(observability.MetricTransactions)
	require.NotNil(t, counter)
	assert.Equal(t, int64(3), counter.Sum())
	assert.Len(t, counter.GetValues(), 2)

	assert.Equal(t, int64(0), provider.FakeMetrics().GetUpDownCounter(observability.MetricActiveTransactions).Sum())
	assert.Equal(t, 12.5, provider.FakeMetrics().GetHistogram(observability.MetricTransactionDuration).GetValues()[0].Value)
	assert.Nil(t, provider.FakeMetrics().GetCounter("missing"))
}
