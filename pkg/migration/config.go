package migration

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/JailtonJunior94/txkit/pkg/observability"
	"github.com/JailtonJunior94/txkit/pkg/observability/noop"
)

// Config holds the configuration for database migrations.
type Config struct {
	// Driver specifies the database driver (postgres, sqlite3).
	Driver Driver

	// DSN is the database connection string.
	DSN string

	// Source is a file:// URL with the migration files. Ignored when FS is set.
	Source string

	// FS and Dir select migrations embedded in the binary, read through iofs.
	FS  fs.FS
	Dir string

	// MigrationsTable overrides the golang-migrate version table name.
	MigrationsTable string

	// Logger receives structured migration events.
	Logger observability.Logger

	// Timeout bounds each migration operation.
	Timeout time.Duration

	// LockTimeout is the maximum time to wait for the migration lock.
	LockTimeout time.Duration

	// StatementTimeout is the maximum duration for a single SQL statement.
	// Zero keeps the database default.
	StatementTimeout time.Duration

	MultiStatementEnabled bool
	MultiStatementMaxSize int

	// DatabaseName is used in logs. If empty, it is extracted from the DSN.
	DatabaseName string
}

// DefaultConfig returns a Config with sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		Driver:                DriverPostgres,
		Logger:                noop.NewProvider().Logger(),
		Timeout:               5 * time.Minute,
		LockTimeout:           30 * time.Second,
		MultiStatementEnabled: true,
		MultiStatementMaxSize: 10 * 1024 * 1024,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !c.Driver.IsValid() {
		return fmt.Errorf("%w: %s (supported: postgres, sqlite3)", ErrInvalidDriver, c.Driver)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("%w: DSN cannot be empty", ErrMissingDSN)
	}
	if c.FS == nil {
		if strings.TrimSpace(c.Source) == "" {
			return fmt.Errorf("%w: source cannot be empty", ErrMissingSource)
		}
		if !strings.HasPrefix(c.Source, "file://") {
			return fmt.Errorf("%w: must start with file:// (got: %s)", ErrMissingSource, c.Source)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.Timeout)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidLockTimeout, c.LockTimeout)
	}
	if c.StatementTimeout < 0 {
		return fmt.Errorf("statement timeout must be non-negative: got %v", c.StatementTimeout)
	}
	if c.MultiStatementEnabled && c.MultiStatementMaxSize <= 0 {
		return fmt.Errorf("multi-statement max size must be positive when multi-statement is enabled: got %d", c.MultiStatementMaxSize)
	}
	if c.Logger == nil {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}

// GetDatabaseName returns the configured database name or extracts it from DSN.
func (c Config) GetDatabaseName() string {
	if c.DatabaseName != "" {
		return c.DatabaseName
	}
	name := c.DSN
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	name, _, _ = strings.Cut(name, "?")
	return strings.TrimSpace(name)
}

func (c Config) params() DatabaseParams {
	return DatabaseParams{
		MigrationsTable:       c.MigrationsTable,
		StatementTimeout:      c.StatementTimeout,
		MultiStatementEnabled: c.MultiStatementEnabled,
		MultiStatementMaxSize: c.MultiStatementMaxSize,
	}
}
