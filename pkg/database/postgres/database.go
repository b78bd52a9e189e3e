package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JailtonJunior94/txkit/pkg/database/sqladapter"
	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// Database defines the public interface for PostgreSQL database operations.
type Database interface {
	Connect(ctx context.Context) error
	DB() *sql.DB
	Provider() (*sqladapter.Provider, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// database is the private implementation of the Database interface.
type database struct {
	db     *sql.DB
	config *config
}

// New creates a new PostgreSQL database instance with the provided options.
func New(opts ...Option) Database {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &database{
		config: cfg,
	}
}

// Connect opens the pool and pings it, retrying failed pings according to
// the retry options. The pool settings are applied only after a successful ping.
func (d *database) Connect(ctx context.Context) error {
	if d.db != nil {
		return ErrAlreadyConnected
	}
	if err := d.config.validate(); err != nil {
		return err
	}

	db, err := sql.Open("pgx", d.buildDSN())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, d.config.retry.pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		d.config.logger.Warn(ctx, "postgres ping failed, retrying",
			observability.Int("attempt", attempt),
			observability.String("retry_in", wait.String()),
			observability.Error(err),
		)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(d.config.retry.policy(), ctx), notify); err != nil {
		_ = db.Close()
		d.config.logger.Error(ctx, "postgres connection failed", observability.Int("attempts", attempt), observability.Error(err))
		return fmt.Errorf("%w: %w", ErrPingFailed, err)
	}

	d.configurePool(db)
	d.db = db
	d.config.logger.Info(ctx, "postgres connected", observability.Int("attempts", attempt))

	return nil
}

// DB returns the underlying *sql.DB instance.
func (d *database) DB() *sql.DB {
	return d.db
}

// Provider exposes the connection pool to the transaction executor.
func (d *database) Provider() (*sqladapter.Provider, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	return sqladapter.New(d.db)
}

// HealthCheck verifies the database connection is alive.
func (d *database) HealthCheck(ctx context.Context) error {
	if d.db == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.retry.pingTimeout)
	defer cancel()

	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrHealthCheckFailed, err)
	}

	return nil
}

// Close gracefully closes the database connection.
func (d *database) Close() error {
	if d.db == nil {
		return ErrNotConnected
	}

	if err := d.db.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCloseFailed, err)
	}

	d.db = nil
	return nil
}

// buildDSN constructs the PostgreSQL connection string.
// If a DSN was provided via WithDSN, it takes precedence over individual parameters.
func (d *database) buildDSN() string {
	if d.config.dsn != "" {
		return d.config.dsn
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d application_name=%s",
		d.config.host,
		d.config.port,
		d.config.user,
		d.config.password,
		d.config.database,
		d.config.sslMode,
		int(d.config.connectTimeout.Seconds()),
		d.config.applicationName,
	)
}

// configurePool sets up the connection pool parameters.
func (d *database) configurePool(db *sql.DB) {
	db.SetMaxOpenConns(d.config.pool.maxOpenConns)
	db.SetMaxIdleConns(d.config.pool.maxIdleConns)
	db.SetConnMaxLifetime(d.config.pool.connMaxLifetime)
	db.SetConnMaxIdleTime(d.config.pool.connMaxIdleTime)
}
