package migration

import (
	"io/fs"
	"time"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// Option is a functional option for configuring the Migrator.
type Option func(*Config)

// WithDriver sets the database driver.
func WithDriver(driver Driver) Option {
	return func(c *Config) {
		c.Driver = driver
	}
}

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithSource sets a file:// migration source, e.g. "file://migrations".
func WithSource(source string) Option {
	return func(c *Config) {
		c.Source = source
	}
}

// WithFS reads migrations from dir inside fsys, typically an embed.FS.
func WithFS(fsys fs.FS, dir string) Option {
	return func(c *Config) {
		c.FS = fsys
		c.Dir = dir
	}
}

// WithMigrationsTable overrides the version table name.
func WithMigrationsTable(table string) Option {
	return func(c *Config) {
		c.MigrationsTable = table
	}
}

// WithLogger sets the structured logger. Nil keeps the no-op logger.
func WithLogger(logger observability.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTimeout bounds each migration operation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithLockTimeout sets the maximum time to wait for the migration lock.
func WithLockTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.LockTimeout = timeout
		}
	}
}

// WithStatementTimeout sets the maximum duration for a single SQL statement.
func WithStatementTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.StatementTimeout = timeout
		}
	}
}

// WithMultiStatement enables or disables multi-statement files.
func WithMultiStatement(enabled bool) Option {
	return func(c *Config) {
		c.MultiStatementEnabled = enabled
	}
}

// WithDatabaseName sets the database name used in logs.
func WithDatabaseName(name string) Option {
	return func(c *Config) {
		c.DatabaseName = name
	}
}
