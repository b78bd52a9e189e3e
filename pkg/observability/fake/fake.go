// Package fake records observability calls in memory so tests can assert on
// what the transaction executor logged, traced and measured.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

type Provider struct {
	tracer  *FakeTracer
	logger  *FakeLogger
	metrics *FakeMetrics
}

func NewProvider() *Provider {
	return &Provider{
		tracer:  NewFakeTracer(),
		logger:  NewFakeLogger(),
		metrics: NewFakeMetrics(),
	}
}

func (p *Provider) Tracer() observability.Tracer { return p.tracer }
func (p *Provider) Logger() observability.Logger { return p.logger }
func (p *Provider) Metrics() observability.Metrics { return p.metrics }

// FakeTracer returns the concrete tracer for assertions.
func (p *Provider) FakeTracer() *FakeTracer { return p.tracer }

// FakeLogger returns the concrete logger for assertions.
func (p *Provider) FakeLogger() *FakeLogger { return p.logger }

// FakeMetrics returns the concrete metrics recorder for assertions.
func (p *Provider) FakeMetrics() *FakeMetrics { return p.metrics }

// FieldValue returns the value of the last field named key.
func FieldValue(fields []observability.Field, key string) (any, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		if fields[i].Key == key {
			return fields[i].Value, true
		}
	}
	return nil, false
}

type spanKey struct{}

type FakeTracer struct {
	mu    sync.RWMutex
	spans []*FakeSpan
}

func NewFakeTracer() *FakeTracer {
	return &FakeTracer{}
}

func (t *FakeTracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	cfg := observability.NewSpanConfig(opts)
	span := &FakeSpan{
		Name:       spanName,
		Kind:       cfg.Kind,
		StartTime:  time.Now(),
		Attributes: cfg.Attributes,
	}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return context.WithValue(ctx, spanKey{}, span), span
}

// SpanFromContext returns the span started on ctx, or an unrecorded span.
func (t *FakeTracer) SpanFromContext(ctx context.Context) observability.Span {
	if span, ok := ctx.Value(spanKey{}).(*FakeSpan); ok {
		return span
	}
	return &FakeSpan{}
}

func (t *FakeTracer) GetSpans() []*FakeSpan {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]*FakeSpan, len(t.spans))
	copy(result, t.spans)
	return result
}

func (t *FakeTracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = nil
}

type FakeSpan struct {
	mu          sync.RWMutex
	Name        string
	Kind        observability.SpanKind
	StartTime   time.Time
	EndTime     *time.Time
	Attributes  []observability.Field
	Events      []FakeEvent
	Status      observability.StatusCode
	StatusDesc  string
	RecordedErr error
}

func (s *FakeSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
}

func (s *FakeSpan) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.EndTime != nil
}

func (s *FakeSpan) SetAttributes(fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attributes = append(s.Attributes, fields...)
}

func (s *FakeSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = code
	s.StatusDesc = description
}

func (s *FakeSpan) RecordError(err error, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordedErr = err
	s.Attributes = append(s.Attributes, fields...)
}

func (s *FakeSpan) AddEvent(name string, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, FakeEvent{Name: name, Timestamp: time.Now(), Fields: fields})
}

func (s *FakeSpan) Context() observability.SpanContext {
	return fakeSpanContext{}
}

type FakeEvent struct {
	Name      string
	Timestamp time.Time
	Fields    []observability.Field
}

type fakeSpanContext struct{}

func (fakeSpanContext) TraceID() string { return "fake-trace-id" }
func (fakeSpanContext) SpanID() string { return "fake-span-id" }

// FakeLogger shares its entries with every logger derived through With.
type FakeLogger struct {
	mu      *sync.RWMutex
	entries *[]LogEntry
	fields  []observability.Field
}

func NewFakeLogger() *FakeLogger {
	entries := make([]LogEntry, 0)
	return &FakeLogger{mu: &sync.RWMutex{}, entries: &entries}
}

func (l *FakeLogger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(observability.LogLevelDebug, msg, fields)
}

func (l *FakeLogger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(observability.LogLevelInfo, msg, fields)
}

func (l *FakeLogger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(observability.LogLevelWarn, msg, fields)
}

func (l *FakeLogger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(observability.LogLevelError, msg, fields)
}

func (l *FakeLogger) log(level observability.LogLevel, msg string, fields []observability.Field) {
	all := make([]observability.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, LogEntry{Level: level, Message: msg, Fields: all, Timestamp: time.Now()})
}

func (l *FakeLogger) With(fields ...observability.Field) observability.Logger {
	child := make([]observability.Field, 0, len(l.fields)+len(fields))
	child = append(child, l.fields...)
	child = append(child, fields...)
	return &FakeLogger{mu: l.mu, entries: l.entries, fields: child}
}

func (l *FakeLogger) GetEntries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]LogEntry, len(*l.entries))
	copy(result, *l.entries)
	return result
}

// GetEntriesByLevel returns the captured entries of one level.
func (l *FakeLogger) GetEntriesByLevel(level observability.LogLevel) []LogEntry {
	var result []LogEntry
	for _, e := range l.GetEntries() {
		if e.Level == level {
			result = append(result, e)
		}
	}
	return result
}

func (l *FakeLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = make([]LogEntry, 0)
}

type LogEntry struct {
	Level     observability.LogLevel
	Message   string
	Fields    []observability.Field
	Timestamp time.Time
}

type FakeMetrics struct {
	mu         sync.RWMutex
	counters   map[string]*FakeCounter
	histograms map[string]*FakeHistogram
	upDowns    map[string]*FakeCounter
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		counters:   make(map[string]*FakeCounter),
		histograms: make(map[string]*FakeHistogram),
		upDowns:    make(map[string]*FakeCounter),
	}
}

func (m *FakeMetrics) Counter(name, description, unit string) observability.Counter {
	return m.counter(m.counters, name, description, unit)
}

func (m *FakeMetrics) UpDownCounter(name, description, unit string) observability.UpDownCounter {
	return m.counter(m.upDowns, name, description, unit)
}

func (m *FakeMetrics) counter(set map[string]*FakeCounter, name, description, unit string) *FakeCounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := set[name]; ok {
		return c
	}
	c := &FakeCounter{Name: name, Description: description, Unit: unit}
	set[name] = c
	return c
}

func (m *FakeMetrics) Histogram(name, description, unit string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histograms[name]; ok {
		return h
	}
	h := &FakeHistogram{Name: name, Description: description, Unit: unit}
	m.histograms[name] = h
	return h
}

// GetCounter returns the named counter or nil if it was never created.
func (m *FakeMetrics) GetCounter(name string) *FakeCounter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

func (m *FakeMetrics) GetUpDownCounter(name string) *FakeCounter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upDowns[name]
}

func (m *FakeMetrics) GetHistogram(name string) *FakeHistogram {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.histograms[name]
}

// FakeCounter records both monotonic and up-down counter calls.
type FakeCounter struct {
	mu          sync.RWMutex
	Name        string
	Description string
	Unit        string
	values      []CounterValue
}

func (c *FakeCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, CounterValue{Value: value, Fields: fields, Timestamp: time.Now()})
}

func (c *FakeCounter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}

func (c *FakeCounter) GetValues() []CounterValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CounterValue, len(c.values))
	copy(result, c.values)
	return result
}

// Sum returns the total of every recorded value.
func (c *FakeCounter) Sum() int64 {
	var total int64
	for _, v := range c.GetValues() {
		total += v.Value
	}
	return total
}

type CounterValue struct {
	Value     int64
	Fields    []observability.Field
	Timestamp time.Time
}

type FakeHistogram struct {
	mu          sync.RWMutex
	Name        string
	Description string
	Unit        string
	values      []HistogramValue
}

func (h *FakeHistogram) Record(ctx context.Context, value float64, fields ...observability.Field) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, HistogramValue{Value: value, Fields: fields, Timestamp: time.Now()})
}

func (h *FakeHistogram) GetValues() []HistogramValue {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]HistogramValue, len(h.values))
	copy(result, h.values)
	return result
}

type HistogramValue struct {
	Value     float64
	Fields    []observability.Field
	Timestamp time.Time
}
