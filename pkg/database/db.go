package database

import (
	"context"
	"database/sql"

	"github.com/JailtonJunior94/txkit/pkg/database/param"
)

// DBTX is the subset of *sql.DB, *sql.Conn and *sql.Tx used by the
// database/sql based drivers.
type DBTX interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TxOptions configures the transaction started when auto-commit is disabled.
type TxOptions = sql.TxOptions

// Provider hands out exclusive connections.
type Provider interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Conn is a single raw driver connection.
type Conn interface {
	// SetAutoCommit(false) starts a transaction using opts. Enabling
	// auto-commit while a transaction is open commits it.
	SetAutoCommit(ctx context.Context, autoCommit bool, opts *TxOptions) error
	Prepare(ctx context.Context, query string) (Stmt, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Close returns the connection to its provider.
	Close() error
}

// Stmt is a prepared statement. Values are bound through the embedded
// param.Binder using 1-based positions.
type Stmt interface {
	param.Binder
	// Execute runs the statement and returns the rows affected, or -1 when
	// the driver does not report it.
	Execute(ctx context.Context) (int64, error)
	Query(ctx context.Context) (Cursor, error)
	// AddToBatch snapshots the currently bound values as one batch row.
	AddToBatch() error
	ExecuteBatch(ctx context.Context) error
	Close() error
}

// Cursor iterates the result of a query.
type Cursor interface {
	Next() bool
	// Value returns the value of the named column at the current row.
	Value(column string) (any, error)
	Err() error
	Close() error
}
