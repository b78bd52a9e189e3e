package otel

import (
	"fmt"
	"log/slog"
	"regexp"

	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

const (
	maxFieldValueLength = 2048
	redactedMarker      = "[REDACTED]"
)

// Driver errors may echo the DSN or credentials back.
var sensitivePatterns = []struct {
	re      *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`://[^:/@\s]+:[^@\s]+@`), "://" + redactedMarker + "@"},
	{regexp.MustCompile(`[Pp]assword\s*[=:]\s*["']?[^"'\s]+["']?`), "password=" + redactedMarker},
	{regexp.MustCompile(`[Bb]earer\s+[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`), "Bearer " + redactedMarker},
}

func sanitizeString(s string) string {
	for _, p := range sensitivePatterns {
		s = p.re.ReplaceAllString(s, p.replace)
	}
	if len(s) > maxFieldValueLength {
		s = s[:maxFieldValueLength] + "...(truncated)"
	}
	return s
}

// sanitizeFields turns errors into redacted strings and bounds string values.
func sanitizeFields(fields []observability.Field) []observability.Field {
	out := make([]observability.Field, len(fields))
	for i, f := range fields {
		switch v := f.Value.(type) {
		case error:
			out[i] = observability.String(f.Key, sanitizeString(v.Error()))
		case string:
			out[i] = observability.String(f.Key, sanitizeString(v))
		default:
			out[i] = f
		}
	}
	return out
}

func toAttributes(fields []observability.Field) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, len(fields))
	for i, f := range fields {
		attrs[i] = toAttribute(f)
	}
	return attrs
}

func toAttribute(f observability.Field) attribute.KeyValue {
	switch v := f.Value.(type) {
	case string:
		return attribute.String(f.Key, v)
	case int:
		return attribute.Int(f.Key, v)
	case int64:
		return attribute.Int64(f.Key, v)
	case float64:
		return attribute.Float64(f.Key, v)
	case bool:
		return attribute.Bool(f.Key, v)
	case error:
		return attribute.String(f.Key, sanitizeString(v.Error()))
	default:
		return attribute.String(f.Key, fmt.Sprint(v))
	}
}

func toLogKeyValue(f observability.Field) otellog.KeyValue {
	switch v := f.Value.(type) {
	case string:
		return otellog.String(f.Key, v)
	case int:
		return otellog.Int(f.Key, v)
	case int64:
		return otellog.Int64(f.Key, v)
	case float64:
		return otellog.Float64(f.Key, v)
	case bool:
		return otellog.Bool(f.Key, v)
	default:
		return otellog.String(f.Key, fmt.Sprint(v))
	}
}

func toSlogAttr(f observability.Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case float64:
		return slog.Float64(f.Key, v)
	case bool:
		return slog.Bool(f.Key, v)
	default:
		return slog.Any(f.Key, v)
	}
}
