package observability

import "context"

// Metrics creates instruments. Asking twice for the same name returns the
// same instrument.
type Metrics interface {
	Counter(name, description, unit string) Counter
	Histogram(name, description, unit string) Histogram
	UpDownCounter(name, description, unit string) UpDownCounter
}

type Counter interface {
	Add(ctx context.Context, value int64, fields ...Field)
	Increment(ctx context.Context, fields ...Field)
}

type Histogram interface {
	Record(ctx context.Context, value float64, fields ...Field)
}

// UpDownCounter tracks a value that can go down, such as open transactions.
type UpDownCounter interface {
	Add(ctx context.Context, value int64, fields ...Field)
}
