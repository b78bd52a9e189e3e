// Package sqladapter implements the database driver contract on top of
// database/sql. Each acquired connection pins one *sql.Conn from the pool.
package sqladapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/scope"
)

// Provider hands out connections from a *sql.DB pool.
type Provider struct {
	db *sql.DB
}

func New(db *sql.DB) (*Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: sql.DB is nil", database.ErrInvalidArgument)
	}
	return &Provider{db: db}, nil
}

// DB returns the underlying pool.
func (p *Provider) DB() *sql.DB {
	return p.db
}

func (p *Provider) Acquire(ctx context.Context) (database.Conn, error) {
	c, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &conn{c: c}, nil
}

type conn struct {
	c      *sql.Conn
	tx     *sql.Tx
	closed bool
}

func (c *conn) executor() database.DBTX {
	if c.tx != nil {
		return c.tx
	}
	return c.c
}

func (c *conn) SetAutoCommit(ctx context.Context, autoCommit bool, opts *database.TxOptions) error {
	if c.closed {
		return database.ErrConnClosed
	}
	if autoCommit {
		if c.tx == nil {
			return nil
		}
		return c.Commit(ctx)
	}
	if c.tx != nil {
		return nil
	}
	tx, err := c.c.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func (c *conn) Prepare(ctx context.Context, query string) (database.Stmt, error) {
	if c.closed {
		return nil, database.ErrConnClosed
	}
	st, err := c.executor().PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &stmt{st: st}, nil
}

// Commit ends the transaction. After a failed commit the transaction is kept
// so that a following Rollback observes sql.ErrTxDone and succeeds.
func (c *conn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return database.ErrNoTransaction
	}
	if err := c.tx.Commit(); err != nil {
		return err
	}
	c.tx = nil
	return nil
}

func (c *conn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return database.ErrNoTransaction
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// Close rolls back an open transaction and returns the connection to the pool.
func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	rollback := func() error { return nil }
	if c.tx != nil {
		rollback = func() error { return c.Rollback(context.Background()) }
	}
	return release(rollback, c.c.Close)
}

// release runs rollback before closing. The rollback failure, being first,
// stays primary when both fail.
func release(rollback, closeConn func() error) error {
	rbErr := rollback()
	return scope.Join(rbErr, closeConn())
}
