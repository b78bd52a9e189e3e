package uow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/param"
	"github.com/JailtonJunior94/txkit/pkg/database/scope"
	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// Connection é a capacidade entregue ao callback de Execute. Ela não tem
// Close: a conexão pertence ao UnitOfWork e deixa de ser utilizável quando
// Execute retorna.
//
// Cada método prepara sua própria instrução e libera instrução e cursor
// antes de retornar, com sucesso ou não.
type Connection interface {
	// Update executa um comando e retorna o número de linhas afetadas, ou -1
	// quando o driver não informa.
	Update(ctx context.Context, query string, params ...param.Parameter) (int64, error)

	// UpdateBatch prepara query uma vez, adiciona cada batch e executa tudo
	// em um único envio. Todos os batches devem ter o mesmo tamanho.
	UpdateBatch(ctx context.Context, query string, batch param.Batch, batches ...param.Batch) error

	// QueryRows executa uma consulta e chama visit para cada linha na ordem do cursor.
	// Um erro de visit interrompe a iteração e é retornado sem alterações.
	QueryRows(ctx context.Context, query string, visit func(Row) error, params ...param.Parameter) error
}

type connection struct {
	raw      database.Conn
	logger   observability.Logger
	released atomic.Bool
}

func newConnection(raw database.Conn, logger observability.Logger) *connection {
	return &connection{raw: raw, logger: logger}
}

func (c *connection) release() {
	c.released.Store(true)
}

func (c *connection) check(query string) error {
	if c.released.Load() {
		return fmt.Errorf("%w: connection used after its unit of work finished", database.ErrConnClosed)
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query is empty", database.ErrInvalidArgument)
	}
	return nil
}

func (c *connection) prepare(ctx context.Context, stmts *scope.Registry, query string) (database.Stmt, error) {
	stmt, err := c.raw.Prepare(ctx, query)
	if err != nil {
		return nil, database.WrapDriverError("prepare", err)
	}
	stmts.Register(func() error {
		return database.WrapDriverError("close statement", stmt.Close())
	})
	return stmt, nil
}

func (c *connection) Update(ctx context.Context, query string, params ...param.Parameter) (n int64, err error) {
	if err := c.check(query); err != nil {
		return 0, err
	}

	stmts := scope.New()
	defer func() { err = scope.Join(err, stmts.Close()) }()

	stmt, err := c.prepare(ctx, stmts, query)
	if err != nil {
		return 0, err
	}
	if err := bindError(param.BindAll(stmt, params...)); err != nil {
		return 0, err
	}

	n, err = stmt.Execute(ctx)
	if err != nil {
		return 0, database.WrapDriverError("execute", err)
	}

	c.logger.Debug(ctx, "statement executed", observability.Statement(query), observability.RowsAffected(n))
	return n, nil
}

func (c *connection) UpdateBatch(ctx context.Context, query string, batch param.Batch, batches ...param.Batch) (err error) {
	if err := c.check(query); err != nil {
		return err
	}

	all := make([]param.Batch, 0, len(batches)+1)
	all = append(all, batch)
	all = append(all, batches...)
	width := batch.Len()
	for i, b := range all {
		if b.Len() == 0 {
			return fmt.Errorf("%w: batch at position %d is empty", database.ErrInvalidArgument, i)
		}
		if b.Len() != width {
			return fmt.Errorf("%w: batch at position %d has %d parameters, expected %d", database.ErrInvalidArgument, i, b.Len(), width)
		}
	}

	stmts := scope.New()
	defer func() { err = scope.Join(err, stmts.Close()) }()

	stmt, err := c.prepare(ctx, stmts, query)
	if err != nil {
		return err
	}
	for _, b := range all {
		if err := bindError(b.Bind(stmt)); err != nil {
			return err
		}
		if err := stmt.AddToBatch(); err != nil {
			return database.WrapDriverError("add to batch", err)
		}
	}
	if err := stmt.ExecuteBatch(ctx); err != nil {
		return database.WrapDriverError("execute batch", err)
	}

	c.logger.Debug(ctx, "batch executed", observability.Statement(query), observability.BatchSize(len(all)))
	return nil
}

func (c *connection) QueryRows(ctx context.Context, query string, visit func(Row) error, params ...param.Parameter) (err error) {
	if err := c.check(query); err != nil {
		return err
	}
	if visit == nil {
		return fmt.Errorf("%w: row visitor is nil", database.ErrInvalidArgument)
	}

	stmts := scope.New()
	defer func() { err = scope.Join(err, stmts.Close()) }()

	stmt, err := c.prepare(ctx, stmts, query)
	if err != nil {
		return err
	}
	if err := bindError(param.BindAll(stmt, params...)); err != nil {
		return err
	}

	cursor, err := stmt.Query(ctx)
	if err != nil {
		return database.WrapDriverError("query", err)
	}
	stmts.Register(func() error {
		return database.WrapDriverError("close cursor", cursor.Close())
	})

	rows := 0
	for cursor.Next() {
		r := &row{cursor: cursor}
		err := visit(r)
		r.done = true
		if err != nil {
			return err
		}
		rows++
	}
	if err := cursor.Err(); err != nil {
		return database.WrapDriverError("iterate rows", err)
	}

	c.logger.Debug(ctx, "query executed", observability.Statement(query), observability.Int("db.rows", rows))
	return nil
}

// bindError leaves caller errors untouched and wraps driver bind failures.
func bindError(err error) error {
	if err == nil || errors.Is(err, database.ErrInvalidArgument) {
		return err
	}
	return database.WrapDriverError("bind", err)
}
