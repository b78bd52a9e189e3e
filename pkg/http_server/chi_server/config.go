package chiserver

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the operational HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// CheckTimeout bounds every run of the readiness checks.
	CheckTimeout time.Duration
	ServiceName  string
}

func DefaultConfig() Config {
	return Config{
		Address:         ":9090",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		CheckTimeout:    5 * time.Second,
		ServiceName:     "txkit",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidConfig)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{name: "read timeout", value: c.ReadTimeout},
		{name: "write timeout", value: c.WriteTimeout},
		{name: "idle timeout", value: c.IdleTimeout},
		{name: "shutdown timeout", value: c.ShutdownTimeout},
		{name: "check timeout", value: c.CheckTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, d.name, d.value)
		}
	}
	return nil
}
