package pgxpool_manager

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/param"
	"github.com/JailtonJunior94/txkit/pkg/vos"
)

func TestStmt_BindsPgtypeValues(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	s := &stmt{sql: "INSERT"}

	require.NoError(t, param.BindAll(s,
		param.String("a"),
		param.NullInt(),
		param.Long(9),
		param.Double(1.5),
		param.NullFloat(),
		param.Byte(7),
		param.Bool(true),
		param.Time(now),
		param.NullTime(),
	))

	args, err := s.take()
	require.NoError(t, err)
	assert.Equal(t, []any{
		pgtype.Text{String: "a", Valid: true},
		pgtype.Int4{},
		pgtype.Int8{Int64: 9, Valid: true},
		pgtype.Float8{Float64: 1.5, Valid: true},
		pgtype.Float4{},
		pgtype.Int2{Int16: 7, Valid: true},
		pgtype.Bool{Bool: true, Valid: true},
		&now,
		(*time.Time)(nil),
	}, args)

	_, err = s.take()
	require.NoError(t, err, "arguments reset after take")
}

func TestStmt_RejectsGapsAndBadPositions(t *testing.T) {
	s := &stmt{}
	require.NoError(t, param.Int(1).Bind(s, 1))

	_, err := s.take()
	assert.ErrorIs(t, err, database.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "parameter 1")

	assert.ErrorIs(t, s.BindInt(0, vos.NewNullableInt32(1)), database.ErrInvalidArgument)
}

func TestTxOptions(t *testing.T) {
	tests := []struct {
		name    string
		in      *database.TxOptions
		want    pgx.TxOptions
		wantErr bool
	}{
		{name: "nil", in: nil, want: pgx.TxOptions{}},
		{name: "serializable read only", in: &database.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: true},
			want: pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadOnly}},
		{name: "read committed", in: &database.TxOptions{Isolation: sql.LevelReadCommitted},
			want: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}},
		{name: "snapshot unsupported", in: &database.TxOptions{Isolation: sql.LevelSnapshot}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := txOptions(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, database.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewProvider_NilPool(t *testing.T) {
	_, err := NewProvider(nil)
	assert.ErrorIs(t, err, database.ErrInvalidArgument)
}
