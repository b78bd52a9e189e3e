package sqladapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/vos"
)

// stmt accumulates arguments by position and replays them on execution.
// Null values are bound as the sql.Null type of the declared column type.
type stmt struct {
	st    *sql.Stmt
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
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindInt(position int, v vos.NullableInt32) error {
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindLong(position int, v vos.NullableInt) error {
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindDouble(position int, v vos.NullableFloat) error {
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindFloat(position int, v vos.NullableFloat32) error {
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindByte(position int, v vos.NullableByte) error {
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindBool(position int, v vos.NullableBool) error {
	return s.bind(position, v.ToSQL())
}

func (s *stmt) BindTime(position int, v vos.NullableTime) error {
	return s.bind(position, v.ToSQL())
}

// take returns the bound arguments and resets them for the next execution.
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
	res, err := s.st.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func (s *stmt) Query(ctx context.Context) (database.Cursor, error) {
	args, err := s.take()
	if err != nil {
		return nil, err
	}
	rows, err := s.st.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		key := strings.ToLower(c)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return &cursor{rows: rows, index: index, width: len(cols)}, nil
}

func (s *stmt) AddToBatch() error {
	args, err := s.take()
	if err != nil {
		return err
	}
	s.batch = append(s.batch, args)
	return nil
}

// ExecuteBatch runs the statement once per batch row. database/sql has no
// batch round-trip; the enclosing transaction makes the rows atomic.
func (s *stmt) ExecuteBatch(ctx context.Context) error {
	rows := s.batch
	s.batch = nil
	if len(rows) == 0 {
		return fmt.Errorf("%w: no batch rows added", database.ErrInvalidArgument)
	}
	for i, args := range rows {
		if _, err := s.st.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("batch row %d: %w", i, err)
		}
	}
	return nil
}

func (s *stmt) Close() error {
	return s.st.Close()
}

type cursor struct {
	rows    *sql.Rows
	index   map[string]int
	width   int
	current []any
	err     error
}

func (c *cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		c.current = nil
		return false
	}

	values := make([]any, c.width)
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
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
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *cursor) Close() error {
	return c.rows.Close()
}
