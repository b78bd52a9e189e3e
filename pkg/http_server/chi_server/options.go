package chiserver

import (
	"net/http"
	"strings"
	"time"
)

type Option func(*Server)

func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithPort listens on every interface at port.
func WithPort(port string) Option {
	return func(s *Server) {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		s.config.Address = port
	}
}

func WithServiceName(name string) Option {
	return func(s *Server) {
		s.config.ServiceName = name
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.config.ShutdownTimeout = timeout
	}
}

// WithMetrics mounts handler on GET /metrics, usually prommetrics.Provider.Handler().
func WithMetrics(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

// WithHealthCheck adds a readiness check served by /ready and /health.
// Database managers expose HealthCheck or Ping with this signature.
func WithHealthCheck(name string, check HealthCheckFunc) Option {
	return func(s *Server) {
		if check != nil {
			s.healthChecks[name] = check
		}
	}
}
