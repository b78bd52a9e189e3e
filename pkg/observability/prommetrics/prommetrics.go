// Package prommetrics backs observability.Metrics with the Prometheus client.
// Instruments are registered lazily on a dedicated registry and exposed
// through Handler. Tracing is discarded; Config.Logger only reports
// collectors the registry refused.
package prommetrics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JailtonJunior94/txkit/pkg/observability"
	"github.com/JailtonJunior94/txkit/pkg/observability/noop"
)

type Config struct {
	// Namespace prefixes every metric name.
	Namespace string
	// Registry receives the collectors. A new registry is created when nil.
	Registry *prometheus.Registry
	// Buckets for histograms; prometheus.DefBuckets when empty.
	Buckets []float64
	// Logger reports collectors the registry refused, for example a name
	// already registered by another provider sharing the registry.
	Logger observability.Logger
}

type Provider struct {
	config   Config
	registry *prometheus.Registry
	noop     *noop.Provider

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
	gauges     map[string]*gauge
}

func New(config Config) *Provider {
	registry := config.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}
	if config.Logger == nil {
		config.Logger = noop.NewProvider().Logger()
	}

	return &Provider{
		config:     config,
		registry:   registry,
		noop:       noop.NewProvider(),
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
		gauges:     make(map[string]*gauge),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Provider) Metrics() observability.Metrics {
	return p
}

func (p *Provider) Tracer() observability.Tracer {
	return p.noop.Tracer()
}

func (p *Provider) Logger() observability.Logger {
	return p.noop.Logger()
}

func (p *Provider) Counter(name, description, _ string) observability.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c
	}
	c := &counter{labeled: labeled{
		provider: p,
		name:     metricName(name) + "_total",
		help:     description,
		kind:     "counter",
	}}
	p.counters[name] = c
	return c
}

func (p *Provider) Histogram(name, description, unit string) observability.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h
	}
	h := &histogram{labeled: labeled{
		provider: p,
		name:     withUnit(metricName(name), unit),
		help:     description,
		kind:     "histogram",
	}}
	p.histograms[name] = h
	return h
}

func (p *Provider) UpDownCounter(name, description, _ string) observability.UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g, ok := p.gauges[name]; ok {
		return g
	}
	g := &gauge{labeled: labeled{
		provider: p,
		name:     metricName(name),
		help:     description,
		kind:     "gauge",
	}}
	p.gauges[name] = g
	return g
}

// labeled builds its collector on first use. Label names are taken from the
// fields of that first observation; later observations fill missing labels
// with "" and drop unknown ones.
type labeled struct {
	provider *Provider
	name     string
	help     string
	kind     string

	once      sync.Once
	labels    []string
	collector prometheus.Collector
	err       error
}

func (l *labeled) setup(ctx context.Context, fields []observability.Field) {
	l.once.Do(func() {
		l.labels = make([]string, 0, len(fields))
		for _, f := range fields {
			l.labels = append(l.labels, metricName(f.Key))
		}

		opts := prometheus.Opts{Namespace: metricName(l.provider.config.Namespace), Name: l.name, Help: l.help}
		switch l.kind {
		case "counter":
			l.collector = prometheus.NewCounterVec(prometheus.CounterOpts(opts), l.labels)
		case "gauge":
			l.collector = prometheus.NewGaugeVec(prometheus.GaugeOpts(opts), l.labels)
		default:
			l.collector = prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: opts.Namespace,
				Name:      opts.Name,
				Help:      opts.Help,
				Buckets:   l.provider.config.Buckets,
			}, l.labels)
		}

		if err := l.provider.registry.Register(l.collector); err != nil {
			l.err = fmt.Errorf("prommetrics: register %s: %w", l.name, err)
			l.provider.config.Logger.Error(ctx, "metric dropped: collector not registered",
				observability.String("metric", l.name),
				observability.Error(l.err),
			)
		}
	})
}

func (l *labeled) values(fields []observability.Field) []string {
	byKey := make(map[string]string, len(fields))
	for _, f := range fields {
		byKey[metricName(f.Key)] = fmt.Sprint(f.Value)
	}
	out := make([]string, len(l.labels))
	for i, name := range l.labels {
		out[i] = byKey[name]
	}
	return out
}

type counter struct {
	labeled
}

func (c *counter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	c.setup(ctx, fields)
	if c.err != nil || value < 0 {
		return
	}
	c.collector.(*prometheus.CounterVec).WithLabelValues(c.values(fields)...).Add(float64(value))
}

func (c *counter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}

type histogram struct {
	labeled
}

func (h *histogram) Record(ctx context.Context, value float64, fields ...observability.Field) {
	h.setup(ctx, fields)
	if h.err != nil {
		return
	}
	h.collector.(*prometheus.HistogramVec).WithLabelValues(h.values(fields)...).Observe(value)
}

type gauge struct {
	labeled
}

func (g *gauge) Add(ctx context.Context, value int64, fields ...observability.Field) {
	g.setup(ctx, fields)
	if g.err != nil {
		return
	}
	g.collector.(*prometheus.GaugeVec).WithLabelValues(g.values(fields)...).Add(float64(value))
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

func withUnit(name, unit string) string {
	switch unit {
	case "s":
		return name + "_seconds"
	case "ms":
		return name + "_milliseconds"
	default:
		return name
	}
}
