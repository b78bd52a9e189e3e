package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/param"
	"github.com/JailtonJunior94/txkit/pkg/database/scope"
)

// RowMapper converte a linha atual em um valor de T.
type RowMapper[T any] func(Row) (T, error)

var errStopIteration = errors.New("stop iteration")

// Query executa query e devolve o resultado de mapper para cada linha, na
// ordem do cursor. Sem linhas, devolve um slice vazio (não nil).
func Query[T any](ctx context.Context, conn Connection, query string, mapper RowMapper[T], params ...param.Parameter) ([]T, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: connection is nil", database.ErrInvalidArgument)
	}
	if mapper == nil {
		return nil, fmt.Errorf("%w: row mapper is nil", database.ErrInvalidArgument)
	}

	result := make([]T, 0)
	err := conn.QueryRows(ctx, query, func(r Row) error {
		v, err := mapper(r)
		if err != nil {
			return err
		}
		result = append(result, v)
		return nil
	}, params...)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryOne devolve o mapeamento da primeira linha ou database.ErrNoRows.
// As linhas restantes não são lidas.
func QueryOne[T any](ctx context.Context, conn Connection, query string, mapper RowMapper[T], params ...param.Parameter) (T, error) {
	var zero T
	if conn == nil {
		return zero, fmt.Errorf("%w: connection is nil", database.ErrInvalidArgument)
	}
	if mapper == nil {
		return zero, fmt.Errorf("%w: row mapper is nil", database.ErrInvalidArgument)
	}

	var (
		out   T
		found bool
	)
	err := conn.QueryRows(ctx, query, func(r Row) error {
		v, err := mapper(r)
		if err != nil {
			return err
		}
		out, found = v, true
		return errStopIteration
	}, params...)
	if err = withoutStop(err); err != nil {
		return zero, err
	}
	if !found {
		return zero, database.ErrNoRows
	}
	return out, nil
}

// withoutStop removes errStopIteration while keeping any teardown failure
// reported alongside it.
func withoutStop(err error) error {
	if err == nil || err == errStopIteration {
		return nil
	}
	var te *scope.TeardownError
	if !errors.As(err, &te) || te.Primary != errStopIteration {
		return err
	}
	if len(te.Suppressed) == 1 {
		return te.Suppressed[0]
	}
	return &scope.TeardownError{Primary: te.Suppressed[0], Suppressed: te.Suppressed[1:]}
}
