package otel

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// otelLogger writes every entry to a slog console handler and emits it as an
// OTLP log record.
type otelLogger struct {
	otelLog     otellog.Logger
	slogLogger  *slog.Logger
	serviceName string
	fields      []observability.Field
}

func newOtelLogger(config *Config, otelLog otellog.Logger) *otelLogger {
	output := config.LogOutput
	if output == nil {
		output = os.Stdout
	}
	return &otelLogger{
		otelLog:     otelLog,
		slogLogger:  newSlogLogger(config.LogLevel, config.LogFormat, output),
		serviceName: config.ServiceName,
	}
}

func newSlogLogger(level observability.LogLevel, format observability.LogFormat, output io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: convertLogLevel(level)}
	if format == observability.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

func convertLogLevel(level observability.LogLevel) slog.Level {
	switch level {
	case observability.LogLevelDebug:
		return slog.LevelDebug
	case observability.LogLevelWarn:
		return slog.LevelWarn
	case observability.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func convertSeverity(level slog.Level) otellog.Severity {
	switch level {
	case slog.LevelDebug:
		return otellog.SeverityDebug
	case slog.LevelWarn:
		return otellog.SeverityWarn
	case slog.LevelError:
		return otellog.SeverityError
	default:
		return otellog.SeverityInfo
	}
}

func (l *otelLogger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *otelLogger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *otelLogger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *otelLogger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *otelLogger) With(fields ...observability.Field) observability.Logger {
	merged := make([]observability.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &otelLogger{
		otelLog:     l.otelLog,
		slogLogger:  l.slogLogger,
		serviceName: l.serviceName,
		fields:      merged,
	}
}

func (l *otelLogger) log(ctx context.Context, level slog.Level, msg string, fields []observability.Field) {
	if !l.slogLogger.Enabled(ctx, level) {
		return
	}

	all := make([]observability.Field, 0, len(l.fields)+len(fields)+3)
	all = append(all, l.fields...)
	all = append(all, fields...)
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		all = append(all,
			observability.String("trace_id", sc.TraceID().String()),
			observability.String("span_id", sc.SpanID().String()),
		)
	}
	all = append(all, observability.String("service", l.serviceName))
	all = sanitizeFields(all)

	attrs := make([]slog.Attr, len(all))
	for i, f := range all {
		attrs[i] = toSlogAttr(f)
	}
	l.slogLogger.LogAttrs(ctx, level, msg, attrs...)

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetBody(otellog.StringValue(msg))
	record.SetSeverity(convertSeverity(level))
	record.SetSeverityText(level.String())
	for _, f := range all {
		record.AddAttributes(toLogKeyValue(f))
	}
	l.otelLog.Emit(ctx, record)
}
