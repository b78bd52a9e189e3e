// Package zaplog backs observability.Logger with go.uber.org/zap. Tracing and
// metrics are discarded; combine it with another backend through
// observability.Combine when those are needed.
package zaplog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JailtonJunior94/txkit/pkg/observability"
	"github.com/JailtonJunior94/txkit/pkg/observability/noop"
)

var ErrInvalidLevel = errors.New("zaplog: invalid log level")

type Provider struct {
	zap    *zap.Logger
	logger *logger
	noop   *noop.Provider
}

// New builds a zap logger. JSON output uses the production encoder config,
// text output the development one.
func New(level observability.LogLevel, format observability.LogFormat, opts ...zap.Option) (*Provider, error) {
	lvl, err := toZapLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if format == observability.LogFormatJSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("zaplog: build logger: %w", err)
	}
	return NewFromZap(z), nil
}

// NewFromZap wraps an already configured zap logger.
func NewFromZap(z *zap.Logger) *Provider {
	return &Provider{zap: z, logger: &logger{zap: z}, noop: noop.NewProvider()}
}

func (p *Provider) Logger() observability.Logger {
	return p.logger
}

func (p *Provider) Tracer() observability.Tracer {
	return p.noop.Tracer()
}

func (p *Provider) Metrics() observability.Metrics {
	return p.noop.Metrics()
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	return p.zap.Sync()
}

type logger struct {
	zap *zap.Logger
}

func (l *logger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *logger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *logger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *logger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *logger) With(fields ...observability.Field) observability.Logger {
	return &logger{zap: l.zap.With(toZapFields(fields)...)}
}

func (l *logger) log(ctx context.Context, level zapcore.Level, msg string, fields []observability.Field) {
	ce := l.zap.Check(level, msg)
	if ce == nil {
		return
	}

	zf := toZapFields(fields)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		zf = append(zf, zap.String("trace_id", sc.TraceID().String()), zap.String("span_id", sc.SpanID().String()))
	}
	ce.Write(zf...)
}

func toZapFields(fields []observability.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, toZapField(f))
	}
	return out
}

func toZapField(f observability.Field) zap.Field {
	switch v := f.Value.(type) {
	case string:
		return zap.String(f.Key, v)
	case int:
		return zap.Int(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case float64:
		return zap.Float64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case time.Duration:
		return zap.Duration(f.Key, v)
	case error:
		if v == nil {
			return zap.Skip()
		}
		return zap.NamedError(f.Key, v)
	default:
		return zap.Any(f.Key, v)
	}
}

func toZapLevel(level observability.LogLevel) (zapcore.Level, error) {
	switch level {
	case observability.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case observability.LogLevelInfo, "":
		return zapcore.InfoLevel, nil
	case observability.LogLevelWarn:
		return zapcore.WarnLevel, nil
	case observability.LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
}
