package uow

import (
	"context"
	"fmt"
	"sync"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/vos"
)

// recorder collects driver calls in the order they happen.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.Events() {
		if e == event {
			n++
		}
	}
	return n
}

// fakeDriver is a scriptable implementation of the database driver contract.
type fakeDriver struct {
	rec *recorder

	acquireErr     error
	beginErr       error
	prepareErr     error
	executeErr     error
	commitErr      error
	rollbackErr    error
	closeErr       error
	stmtCloseErr   error
	cursorCloseErr error

	rows []map[string]any
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{rec: &recorder{}}
}

func (d *fakeDriver) Acquire(ctx context.Context) (database.Conn, error) {
	d.rec.add("acquire")
	if d.acquireErr != nil {
		return nil, d.acquireErr
	}
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) SetAutoCommit(ctx context.Context, autoCommit bool, opts *database.TxOptions) error {
	if opts != nil {
		c.d.rec.add("autocommit=%t isolation=%s readonly=%t", autoCommit, opts.Isolation, opts.ReadOnly)
	} else {
		c.d.rec.add("autocommit=%t", autoCommit)
	}
	return c.d.beginErr
}

func (c *fakeConn) Prepare(ctx context.Context, query string) (database.Stmt, error) {
	c.d.rec.add("prepare")
	if c.d.prepareErr != nil {
		return nil, c.d.prepareErr
	}
	return &fakeStmt{d: c.d}, nil
}

func (c *fakeConn) Commit(ctx context.Context) error {
	c.d.rec.add("commit")
	return c.d.commitErr
}

func (c *fakeConn) Rollback(ctx context.Context) error {
	c.d.rec.add("rollback")
	return c.d.rollbackErr
}

func (c *fakeConn) Close() error {
	c.d.rec.add("close")
	return c.d.closeErr
}

type fakeStmt struct {
	d *fakeDriver
}

func (s *fakeStmt) bind(kind string, position int, null bool) error {
	if null {
		s.d.rec.add("bind %s(%d)=NULL", kind, position)
	} else {
		s.d.rec.add("bind %s(%d)", kind, position)
	}
	return nil
}

func (s *fakeStmt) BindString(p int, v vos.NullableString) error { return s.bind("string", p, v.IsNull()) }
func (s *fakeStmt) BindInt(p int, v vos.NullableInt32) error { return s.bind("int", p, v.IsNull()) }
func (s *fakeStmt) BindLong(p int, v vos.NullableInt) error { return s.bind("long", p, v.IsNull()) }
func (s *fakeStmt) BindDouble(p int, v vos.NullableFloat) error { return s.bind("double", p, v.IsNull()) }
func (s *fakeStmt) BindFloat(p int, v vos.NullableFloat32) error { return s.bind("float", p, v.IsNull()) }
func (s *fakeStmt) BindByte(p int, v vos.NullableByte) error { return s.bind("byte", p, v.IsNull()) }
func (s *fakeStmt) BindBool(p int, v vos.NullableBool) error { return s.bind("bool", p, v.IsNull()) }
func (s *fakeStmt) BindTime(p int, v vos.NullableTime) error { return s.bind("time", p, v.IsNull()) }

func (s *fakeStmt) Execute(ctx context.Context) (int64, error) {
	s.d.rec.add("execute")
	if s.d.executeErr != nil {
		return 0, s.d.executeErr
	}
	return 1, nil
}

func (s *fakeStmt) Query(ctx context.Context) (database.Cursor, error) {
	s.d.rec.add("query")
	if s.d.executeErr != nil {
		return nil, s.d.executeErr
	}
	return &fakeCursor{d: s.d, pos: -1}, nil
}

func (s *fakeStmt) AddToBatch() error {
	s.d.rec.add("add batch")
	return nil
}

func (s *fakeStmt) ExecuteBatch(ctx context.Context) error {
	s.d.rec.add("execute batch")
	return s.d.executeErr
}

func (s *fakeStmt) Close() error {
	s.d.rec.add("close statement")
	return s.d.stmtCloseErr
}

type fakeCursor struct {
	d   *fakeDriver
	pos int
}

func (c *fakeCursor) Next() bool {
	c.pos++
	return c.pos < len(c.d.rows)
}

func (c *fakeCursor) Value(column string) (any, error) {
	v, ok := c.d.rows[c.pos][column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrUnknownColumn, column)
	}
	return v, nil
}

func (c *fakeCursor) Err() error { return nil }

func (c *fakeCursor) Close() error {
	c.d.rec.add("close cursor")
	return c.d.cursorCloseErr
}
