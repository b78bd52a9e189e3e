package pgxpool_manager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/scope"
	"github.com/JailtonJunior94/txkit/pkg/vos"
)

// Provider implements database.Provider over a pgx pool. Batches are sent
// with pgx.Batch in a single round-trip and nulls are bound as pgtype values.
type Provider struct {
	pool *pgxpool.Pool
}

func NewProvider(pool *pgxpool.Pool) (*Provider, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: pgx pool is nil", database.ErrInvalidArgument)
	}
	return &Provider{pool: pool}, nil
}

func (p *Provider) Acquire(ctx context.Context) (database.Conn, error) {
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &conn{c: c}, nil
}

// querier is satisfied by both *pgxpool.Conn and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type conn struct {
	c      *pgxpool.Conn
	tx     pgx.Tx
	closed bool
}

func (c *conn) querier() querier {
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
	txOpts, err := txOptions(opts)
	if err != nil {
		return err
	}
	tx, err := c.c.BeginTx(ctx, txOpts)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func txOptions(opts *database.TxOptions) (pgx.TxOptions, error) {
	var out pgx.TxOptions
	if opts == nil {
		return out, nil
	}
	switch opts.Isolation {
	case sql.LevelDefault:
	case sql.LevelReadUncommitted:
		out.IsoLevel = pgx.ReadUncommitted
	case sql.LevelReadCommitted:
		out.IsoLevel = pgx.ReadCommitted
	case sql.LevelRepeatableRead:
		out.IsoLevel = pgx.RepeatableRead
	case sql.LevelSerializable:
		out.IsoLevel = pgx.Serializable
	default:
		return out, fmt.Errorf("%w: isolation level %s is not supported by PostgreSQL", database.ErrInvalidArgument, opts.Isolation)
	}
	if opts.ReadOnly {
		out.AccessMode = pgx.ReadOnly
	}
	return out, nil
}

// Prepare records the statement text. pgx prepares and caches statements
// on first execution.
func (c *conn) Prepare(ctx context.Context, query string) (database.Stmt, error) {
	if c.closed {
		return nil, database.ErrConnClosed
	}
	return &stmt{conn: c, sql: query}, nil
}

// Commit keeps the transaction on failure so a following Rollback observes
// pgx.ErrTxClosed and succeeds.
func (c *conn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return database.ErrNoTransaction
	}
	if err := c.tx.Commit(ctx); err != nil {
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
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// Close rolls back an open transaction and releases the connection to the pool.
func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var rbErr error
	if c.tx != nil {
		rbErr = c.Rollback(context.Background())
	}
	c.c.Release()
	return rbErr
}

type stmt struct {
	conn  *conn
	sql   string
	args  []any
	bound []bool
	batch [][]any
}

func (s *stmt) bind(position int, v any) error {
	if position < 1 {
		return fmt.Errorf("%w: parameter position %d, positions start at 1", database.ErrInvalidArgument, position)
	}
	for len(s.args) < position {
		s.args = append(s.args, nil)
		s.bound = append(s.bound, false)
	}
	s.args[position-1] = v
	s.bound[position-1] = true
	return nil
}

func (s *stmt) BindString(position int, v vos.NullableString) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Text{String: val, Valid: ok})
}

func (s *stmt) BindInt(position int, v vos.NullableInt32) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Int4{Int32: val, Valid: ok})
}

func (s *stmt) BindLong(position int, v vos.NullableInt) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Int8{Int64: val, Valid: ok})
}

func (s *stmt) BindDouble(position int, v vos.NullableFloat) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Float8{Float64: val, Valid: ok})
}

func (s *stmt) BindFloat(position int, v vos.NullableFloat32) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Float4{Float32: val, Valid: ok})
}

// BindByte uses int2, the smallest PostgreSQL integer type.
func (s *stmt) BindByte(position int, v vos.NullableByte) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Int2{Int16: int16(val), Valid: ok})
}

func (s *stmt) BindBool(position int, v vos.NullableBool) error {
	val, ok := v.Get()
	return s.bind(position, pgtype.Bool{Bool: val, Valid: ok})
}

// BindTime binds a *time.Time so the same value fits timestamp and timestamptz columns.
func (s *stmt) BindTime(position int, v vos.NullableTime) error {
	return s.bind(position, v.Ptr())
}

func (s *stmt) take() ([]any, error) {
	for i, ok := range s.bound {
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d is not bound", database.ErrInvalidArgument, i+1)
		}
	}
	args := s.args
	s.args, s.bound = nil, nil
	return args, nil
}

func (s *stmt) Execute(ctx context.Context) (int64, error) {
	args, err := s.take()
	if err != nil {
		return 0, err
	}
	tag, err := s.conn.querier().Exec(ctx, s.sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *stmt) Query(ctx context.Context) (database.Cursor, error) {
	args, err := s.take()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.querier().Query(ctx, s.sql, args...)
	if err != nil {
		return nil, err
	}

	return newCursor(rows), nil
}

func (s *stmt) AddToBatch() error {
	args, err := s.take()
	if err != nil {
		return err
	}
	s.batch = append(s.batch, args)
	return nil
}

// ExecuteBatch queues every row on a pgx.Batch and sends it in one round-trip.
func (s *stmt) ExecuteBatch(ctx context.Context) (err error) {
	rows := s.batch
	s.batch = nil
	if len(rows) == 0 {
		return fmt.Errorf("%w: no batch rows added", database.ErrInvalidArgument)
	}

	b := &pgx.Batch{}
	for _, args := range rows {
		b.Queue(s.sql, args...)
	}
	results := s.conn.querier().SendBatch(ctx, b)
	defer func() { err = scope.Join(err, results.Close()) }()

	for i := range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch row %d: %w", i, err)
		}
	}
	return nil
}

func (s *stmt) Close() error {
	s.args, s.bound, s.batch = nil, nil, nil
	return nil
}

type cursor struct {
	rows    pgx.Rows
	index   map[string]int
	current []any
	err     error
	// reported is the error already returned by Err.
	reported error
}

// newCursor indexes columns case-insensitively, like the database/sql
// adapter. The first of duplicated names wins.
func newCursor(rows pgx.Rows) *cursor {
	fields := rows.FieldDescriptions()
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		key := strings.ToLower(f.Name)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return &cursor{rows: rows, index: index}
}

func (c *cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		c.current = nil
		return false
	}
	values, err := c.rows.Values()
	if err != nil {
		c.err = err
		c.current = nil
		return false
	}
	c.current = values
	return true
}

func (c *cursor) Value(column string) (any, error) {
	i, ok := c.index[strings.ToLower(column)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrUnknownColumn, column)
	}
	if c.current == nil {
		return nil, fmt.Errorf("%w: cursor is not positioned on a row", database.ErrInvalidArgument)
	}
	return c.current[i], nil
}

func (c *cursor) Err() error {
	err := c.err
	if err == nil {
		err = c.rows.Err()
	}
	c.reported = err
	return err
}

// Close releases the rows and returns a failure pgx only surfaces on close,
// as when iteration stopped before the last row. An error already returned
// by Err is not repeated.
func (c *cursor) Close() error {
	c.rows.Close()
	if err := c.rows.Err(); err != nil && !errors.Is(err, c.reported) {
		return err
	}
	return nil
}
