// Package observability is the logging, tracing and metrics facade used by
// txkit. Backends live in the noop, fake, otel, zaplog and prommetrics packages.
package observability

// Observability is the only dependency components receive.
type Observability interface {
	Tracer() Tracer
	Logger() Logger
	Metrics() Metrics
}

// Combine assembles an Observability from parts of different backends, for
// example OpenTelemetry traces with zap logs and Prometheus metrics.
func Combine(tracer Tracer, logger Logger, metrics Metrics) Observability {
	return combined{tracer: tracer, logger: logger, metrics: metrics}
}

type combined struct {
	tracer  Tracer
	logger  Logger
	metrics Metrics
}

func (c combined) Tracer() Tracer { return c.tracer }
func (c combined) Logger() Logger { return c.logger }
func (c combined) Metrics() Metrics { return c.metrics }

// Field is a key-value pair for structured logs, span attributes and metric labels.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates a field under the "error" key.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Instrument and span names emitted by the transaction executor.
const (
	SpanExecute               = "uow.execute"
	MetricTransactions        = "txkit.transactions"
	MetricTransactionDuration = "txkit.transaction.duration"
	MetricActiveTransactions  = "txkit.transactions.active"
)

// Transaction outcomes reported under the "outcome" key.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// TxID identifies one Execute invocation in logs and spans.
func TxID(id string) Field {
	return Field{Key: "tx.id", Value: id}
}

// Outcome labels a transaction as committed or rolled back.
func Outcome(outcome string) Field {
	return Field{Key: "outcome", Value: outcome}
}

// Statement carries SQL text. Bound values are never logged.
func Statement(query string) Field {
	return Field{Key: "db.statement", Value: query}
}

func RowsAffected(n int64) Field {
	return Field{Key: "db.rows_affected", Value: n}
}

func BatchSize(n int) Field {
	return Field{Key: "db.batch_size", Value: n}
}
