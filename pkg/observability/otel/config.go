package otel

import (
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// OTLPProtocol defines the protocol to use for OTLP export.
type OTLPProtocol string

const (
	// ProtocolGRPC exports over gRPC, usually port 4317.
	ProtocolGRPC OTLPProtocol = "grpc"
	// ProtocolHTTP exports over HTTP/protobuf, usually port 4318.
	ProtocolHTTP OTLPProtocol = "http"
)

// Config holds the configuration for the OpenTelemetry provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPProtocol   OTLPProtocol

	// Insecure disables transport security. Rejected in production.
	Insecure  bool
	TLSConfig *tls.Config

	// TraceSampleRate goes from 0.0 to 1.0.
	TraceSampleRate float64

	LogLevel  observability.LogLevel
	LogFormat observability.LogFormat
	// LogOutput receives the console copy of every entry. Defaults to os.Stdout.
	LogOutput io.Writer

	ResourceAttributes map[string]string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName:     serviceName,
		ServiceVersion:  "unknown",
		Environment:     "development",
		OTLPEndpoint:    "localhost:4317",
		OTLPProtocol:    ProtocolGRPC,
		TraceSampleRate: 1.0,
		LogLevel:        observability.LogLevelInfo,
		LogFormat:       observability.LogFormatJSON,
	}
}

func normalizeProtocol(protocol OTLPProtocol) OTLPProtocol {
	switch strings.ToLower(string(protocol)) {
	case "http", "http/protobuf":
		return ProtocolHTTP
	default:
		return ProtocolGRPC
	}
}

func isProduction(environment string) bool {
	switch strings.ToLower(environment) {
	case "production", "prod":
		return true
	default:
		return false
	}
}

func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if config.ServiceName == "" {
		return fmt.Errorf("ServiceName cannot be empty")
	}
	if config.OTLPEndpoint == "" {
		return fmt.Errorf("OTLPEndpoint cannot be empty")
	}
	if config.TraceSampleRate < 0 || config.TraceSampleRate > 1 {
		return fmt.Errorf("TraceSampleRate must be between 0 and 1, got %v", config.TraceSampleRate)
	}
	if config.Insecure && isProduction(config.Environment) {
		return fmt.Errorf("insecure connections are not allowed in production environment")
	}
	if config.TLSConfig != nil && config.TLSConfig.MinVersion > 0 && config.TLSConfig.MinVersion < tls.VersionTLS12 {
		return fmt.Errorf("minimum TLS version must be 1.2 or higher")
	}
	return nil
}
