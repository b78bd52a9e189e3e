// Package otel implements the observability facade on the OpenTelemetry SDK,
// exporting traces, metrics and logs over OTLP.
package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// Provider implements observability.Observability with OpenTelemetry.
type Provider struct {
	config         *Config
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
	tracer         *otelTracer
	logger         *otelLogger
	metrics        *otelMetrics
}

// NewProvider creates the OTLP exporters and installs the tracer and meter
// providers and the W3C propagators as OpenTelemetry globals.
func NewProvider(ctx context.Context, config *Config) (*Provider, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.OTLPProtocol = normalizeProtocol(config.OTLPProtocol)

	spanExporter, err := newTraceExporter(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	metricExporter, err := newMetricExporter(ctx, config)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create metric exporter: %w", err), spanExporter.Shutdown(ctx))
	}
	logExporter, err := newLogExporter(ctx, config)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create log exporter: %w", err),
			spanExporter.Shutdown(ctx),
			metricExporter.Shutdown(ctx),
		)
	}

	provider, err := newProvider(config,
		sdktrace.WithBatcher(spanExporter),
		sdkmetric.NewPeriodicReader(metricExporter),
		sdklog.NewBatchProcessor(logExporter),
	)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(provider.tracerProvider)
	otel.SetMeterProvider(provider.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider, nil
}

// newProvider wires the SDK providers around already built pipelines.
func newProvider(config *Config, spans sdktrace.TracerProviderOption, reader sdkmetric.Reader, logs sdklog.Processor) (*Provider, error) {
	res, err := newResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{config: config}
	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(newSampler(config.TraceSampleRate))),
		spans,
	)
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	p.loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(logs),
	)

	p.tracer = &otelTracer{tracer: p.tracerProvider.Tracer(config.ServiceName)}
	p.metrics = &otelMetrics{meter: p.meterProvider.Meter(config.ServiceName)}
	p.logger = newOtelLogger(config, p.loggerProvider.Logger(config.ServiceName))
	return p, nil
}

func newResource(config *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironment(config.Environment),
	}
	for k, v := range config.ResourceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	return resource.New(context.Background(), resource.WithAttributes(attrs...))
}

func newSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Without Insecure or TLSConfig the exporters use the system TLS defaults.

func newTraceExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	if config.OTLPProtocol == ProtocolHTTP {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(config.OTLPEndpoint)}
		if config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		} else if config.TLSConfig != nil {
			opts = append(opts, otlptracehttp.WithTLSClientConfig(config.TLSConfig))
		}
		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(config.OTLPEndpoint)}
	if config.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else if config.TLSConfig != nil {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(config.TLSConfig)))
	}
	return otlptracegrpc.New(ctx, opts...)
}

func newMetricExporter(ctx context.Context, config *Config) (sdkmetric.Exporter, error) {
	if config.OTLPProtocol == ProtocolHTTP {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.OTLPEndpoint)}
		if config.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		} else if config.TLSConfig != nil {
			opts = append(opts, otlpmetrichttp.WithTLSClientConfig(config.TLSConfig))
		}
		return otlpmetrichttp.New(ctx, opts...)
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(config.OTLPEndpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else if config.TLSConfig != nil {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(config.TLSConfig)))
	}
	return otlpmetricgrpc.New(ctx, opts...)
}

func newLogExporter(ctx context.Context, config *Config) (sdklog.Exporter, error) {
	if config.OTLPProtocol == ProtocolHTTP {
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(config.OTLPEndpoint)}
		if config.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		} else if config.TLSConfig != nil {
			opts = append(opts, otlploghttp.WithTLSClientConfig(config.TLSConfig))
		}
		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(config.OTLPEndpoint)}
	if config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else if config.TLSConfig != nil {
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(config.TLSConfig)))
	}
	return otlploggrpc.New(ctx, opts...)
}

func (p *Provider) Tracer() observability.Tracer { return p.tracer }
func (p *Provider) Logger() observability.Logger { return p.logger }
func (p *Provider) Metrics() observability.Metrics { return p.metrics }

// Shutdown flushes and stops every pipeline, returning all failures joined.
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.tracerProvider.Shutdown(ctx),
		p.meterProvider.Shutdown(ctx),
		p.loggerProvider.Shutdown(ctx),
	)
}
