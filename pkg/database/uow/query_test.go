package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/param"
	"github.com/JailtonJunior94/txkit/pkg/database/scope"
)

type reading struct {
	ID     int64
	Sensor string
	Level  *int32
}

func mapReading(r Row) (reading, error) {
	id, err := r.Long("id")
	if err != nil {
		return reading{}, err
	}
	sensor, err := r.String("sensor")
	if err != nil {
		return reading{}, err
	}
	level, err := r.Int("level")
	if err != nil {
		return reading{}, err
	}
	return reading{ID: id.ValueOr(0), Sensor: sensor.ValueOr(""), Level: level.Ptr()}, nil
}

func inTransaction(t *testing.T, d *fakeDriver, fn func(ctx context.Context, conn Connection) error) error {
	t.Helper()
	return MustNewUnitOfWork(d).Execute(context.Background(), fn)
}

func TestQuery_ZeroRows(t *testing.T) {
	d := newFakeDriver()

	var got []reading
	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		var err error
		got, err = Query(ctx, conn, "SELECT * FROM readings", mapReading)
		return err
	})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuery_PreservesCursorOrder(t *testing.T) {
	d := newFakeDriver()
	d.rows = []map[string]any{
		{"id": int64(3), "sensor": "c", "level": int64(30)},
		{"id": int64(1), "sensor": "a", "level": nil},
		{"id": int64(2), "sensor": "b", "level": int64(20)},
	}

	var got []reading
	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		var err error
		got, err = Query(ctx, conn, "SELECT id, sensor, level FROM readings WHERE sensor <> ?", mapReading, param.NullString())
		return err
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.Nil(t, got[1].Level)
	require.NotNil(t, got[0].Level)
	assert.Equal(t, int32(30), *got[0].Level)

	assert.Equal(t, []string{
		"acquire",
		"autocommit=false",
		"prepare",
		"bind string(1)=NULL",
		"query",
		"close cursor",
		"close statement",
		"commit",
		"close",
	}, d.rec.Events())
}

func TestQuery_MapperErrorReleasesCursorFirst(t *testing.T) {
	d := newFakeDriver()
	d.rows = []map[string]any{{"id": int64(1)}}

	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		_, err := Query(ctx, conn, "SELECT id FROM readings", mapReading)
		return err
	})

	assert.ErrorIs(t, err, database.ErrUnknownColumn)
	assert.Contains(t, err.Error(), `column "sensor"`)
	assert.Equal(t, []string{
		"acquire", "autocommit=false", "prepare", "query",
		"close cursor", "close statement", "rollback", "close",
	}, d.rec.Events())
}

func TestQuery_StatementTeardownFailuresSurface(t *testing.T) {
	d := newFakeDriver()
	d.cursorCloseErr = errors.New("cursor close failed")
	d.stmtCloseErr = errors.New("statement close failed")

	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		_, err := Query(ctx, conn, "SELECT 1", mapReading)
		return err
	})

	var te *scope.TeardownError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, te.Primary, d.cursorCloseErr)
	assert.ErrorIs(t, err, d.stmtCloseErr)
	assert.Equal(t, 1, d.rec.count("rollback"))
}

func TestQueryOne(t *testing.T) {
	t.Run("first row", func(t *testing.T) {
		d := newFakeDriver()
		d.rows = []map[string]any{
			{"id": int64(1), "sensor": "a", "level": nil},
			{"id": int64(2), "sensor": "b", "level": nil},
		}

		var got reading
		err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
			var err error
			got, err = QueryOne(ctx, conn, "SELECT * FROM readings", mapReading)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, 1, d.rec.count("commit"))
	})

	t.Run("no rows", func(t *testing.T) {
		err := inTransaction(t, newFakeDriver(), func(ctx context.Context, conn Connection) error {
			_, err := QueryOne(ctx, conn, "SELECT * FROM readings", mapReading)
			return err
		})
		assert.ErrorIs(t, err, database.ErrNoRows)
	})

	t.Run("teardown failure is kept", func(t *testing.T) {
		d := newFakeDriver()
		d.rows = []map[string]any{{"id": int64(1), "sensor": "a", "level": nil}}
		d.stmtCloseErr = errors.New("statement close failed")

		err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
			_, err := QueryOne(ctx, conn, "SELECT * FROM readings", mapReading)
			return err
		})
		assert.ErrorIs(t, err, d.stmtCloseErr)
		assert.NotErrorIs(t, err, errStopIteration)
	})
}

func TestRow_TypedGetters(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d := newFakeDriver()
	d.rows = []map[string]any{{
		"name": "probe", "small": int64(7), "big": int64(1 << 40), "ratio": 0.25,
		"temp": float64(1.5), "flag": int64(1), "active": true, "at": now, "missing": nil,
	}}

	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		return conn.QueryRows(ctx, "SELECT *", func(r Row) error {
			s, err := r.String("name")
			require.NoError(t, err)
			assert.Equal(t, "probe", s.ValueOr(""))

			i, err := r.Int("small")
			require.NoError(t, err)
			assert.Equal(t, int32(7), i.ValueOr(0))

			l, err := r.Long("big")
			require.NoError(t, err)
			assert.Equal(t, int64(1<<40), l.ValueOr(0))

			dbl, err := r.Double("ratio")
			require.NoError(t, err)
			assert.Equal(t, 0.25, dbl.ValueOr(0))

			f, err := r.Float("temp")
			require.NoError(t, err)
			assert.Equal(t, float32(1.5), f.ValueOr(0))

			b, err := r.Byte("flag")
			require.NoError(t, err)
			assert.Equal(t, byte(1), b.ValueOr(0))

			ok, err := r.Bool("active")
			require.NoError(t, err)
			assert.True(t, ok.IsTrue())

			at, err := r.Time("at")
			require.NoError(t, err)
			assert.True(t, now.Equal(at.ValueOr(time.Time{})))

			n, err := r.Int("missing")
			require.NoError(t, err)
			assert.True(t, n.IsNull())

			_, err = r.Int("big")
			assert.Error(t, err, "int64 overflow must not be truncated")
			return nil
		})
	})
	require.NoError(t, err)
}

func TestRow_UnusableAfterVisit(t *testing.T) {
	d := newFakeDriver()
	d.rows = []map[string]any{{"id": int64(1)}}

	var kept Row
	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		return conn.QueryRows(ctx, "SELECT id", func(r Row) error {
			kept = r
			return nil
		})
	})
	require.NoError(t, err)

	_, err = kept.Long("id")
	assert.ErrorIs(t, err, database.ErrInvalidArgument)
}

func TestUpdateBatch(t *testing.T) {
	t.Run("prepares once and executes once", func(t *testing.T) {
		d := newFakeDriver()
		err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
			return conn.UpdateBatch(ctx, "INSERT INTO t (a, b) VALUES (?, ?)",
				param.MustBatch(param.String("x"), param.NullInt()),
				param.MustBatch(param.String("y"), param.Int(2)),
			)
		})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"acquire", "autocommit=false", "prepare",
			"bind string(1)", "bind int(2)=NULL", "add batch",
			"bind string(1)", "bind int(2)", "add batch",
			"execute batch", "close statement", "commit", "close",
		}, d.rec.Events())
	})

	t.Run("rejects empty and ragged batches before preparing", func(t *testing.T) {
		d := newFakeDriver()
		err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
			return conn.UpdateBatch(ctx, "INSERT INTO t (a) VALUES (?)", param.MustBatch(param.Int(1)), param.Batch{})
		})
		assert.ErrorIs(t, err, database.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "position 1")

		err = inTransaction(t, d, func(ctx context.Context, conn Connection) error {
			return conn.UpdateBatch(ctx, "INSERT INTO t (a) VALUES (?)", param.MustBatch(param.Int(1)), param.MustBatch(param.Int(1), param.Int(2)))
		})
		assert.ErrorIs(t, err, database.ErrInvalidArgument)
		assert.Equal(t, 0, d.rec.count("prepare"))
	})

	t.Run("execute failure still closes the statement", func(t *testing.T) {
		d := newFakeDriver()
		d.executeErr = errors.New("constraint violation")
		err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
			return conn.UpdateBatch(ctx, "INSERT INTO t (a) VALUES (?)", param.MustBatch(param.Int(1)))
		})

		var de *database.DriverError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "execute batch", de.Op)
		assert.Equal(t, 1, d.rec.count("close statement"))
		assert.Equal(t, 1, d.rec.count("rollback"))
	})
}

func TestUpdate_Validation(t *testing.T) {
	d := newFakeDriver()
	err := inTransaction(t, d, func(ctx context.Context, conn Connection) error {
		if _, err := conn.Update(ctx, "  "); !errors.Is(err, database.ErrInvalidArgument) {
			return errors.New("empty query accepted")
		}
		_, err := conn.Update(ctx, "UPDATE t SET a = ?", nil)
		return err
	})

	assert.ErrorIs(t, err, database.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "position 0")
	assert.Equal(t, 1, d.rec.count("close statement"))
}
