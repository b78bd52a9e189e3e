// Package postgres_otelsql opens a database/sql pool whose driver is wrapped
// by otelsql, so every statement issued by a unit of work becomes a span.
package postgres_otelsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/JailtonJunior94/txkit/pkg/database/sqladapter"
	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// ErrClosed is returned by operations on a manager after Shutdown.
var ErrClosed = errors.New("database manager is closed")

// DBManager manages an instrumented PostgreSQL pool.
// Create one per process and share it.
type DBManager struct {
	db     *sql.DB
	config *Config
	mu     sync.RWMutex
	closed bool
}

// NewDBManager registers the instrumented driver, opens the pool and pings it.
func NewDBManager(ctx context.Context, config *Config) (*DBManager, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	driverName, err := otelsql.Register("pgx", driverOptions(config)...)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql driver: %w", err)
	}

	db, err := sql.Open(driverName, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	manager := &DBManager{db: db, config: config}
	manager.configurePool()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if config.EnableMetrics {
		if _, err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(semconv.DBSystemPostgreSQL)); err != nil && config.Logger != nil {
			config.Logger.Warn(ctx, "failed to register otelsql pool metrics", observability.Error(err))
		}
	}

	return manager, nil
}

func driverOptions(config *Config) []otelsql.Option {
	return []otelsql.Option{
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
			attribute.String("service.name", config.ServiceName),
		),
		otelsql.WithSpanOptions(otelsql.SpanOptions{
			OmitConnResetSession: true,
			OmitRows:             true,
		}),
		otelsql.WithSQLCommenter(config.EnableSQLCommenter),
	}
}

func (m *DBManager) configurePool() {
	m.db.SetMaxOpenConns(m.config.MaxOpenConns)
	m.db.SetMaxIdleConns(m.config.MaxIdleConns)
	m.db.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	m.db.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)
}

// DB returns the pool, or nil after Shutdown.
func (m *DBManager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}
	return m.db
}

// Provider adapts the instrumented pool for the transaction executor.
func (m *DBManager) Provider() (*sqladapter.Provider, error) {
	db := m.DB()
	if db == nil {
		return nil, ErrClosed
	}
	return sqladapter.New(db)
}

// Ping verifies database connectivity.
func (m *DBManager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	if err := m.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Shutdown closes the pool. It is idempotent and honours the context deadline;
// when the deadline wins, the pool keeps closing in the background.
func (m *DBManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	done := make(chan error, 1)
	go func() {
		done <- m.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout exceeded: %w", ctx.Err())
	}
}

// Stats returns pool statistics, or the zero value after Shutdown.
func (m *DBManager) Stats() sql.DBStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return sql.DBStats{}
	}
	return m.db.Stats()
}
