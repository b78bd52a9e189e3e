package uow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/database/scope"
	"github.com/JailtonJunior94/txkit/pkg/observability"
	"github.com/JailtonJunior94/txkit/pkg/observability/noop"
)

// UnitOfWork executa uma função dentro de uma transação de banco de dados.
//
// Cada chamada de Execute adquire uma conexão exclusiva do Provider, desabilita
// o auto-commit e entrega ao callback uma Connection. Se o callback retornar
// nil a transação é confirmada; em caso de erro ou panic ela é revertida.
// Em todos os casos a conexão é devolvida ao Provider exatamente uma vez.
//
// Thread-Safety:
// Execute pode ser chamado por várias goroutines ao mesmo tempo desde que o
// Provider suporte aquisições concorrentes. O UnitOfWork guarda apenas
// configuração imutável.
type UnitOfWork interface {
	// Execute roda fn dentro de uma transação.
	// Erros de fn, do commit e da liberação de recursos são todos reportados:
	// quando mais de um ocorre, o retorno é um *scope.TeardownError cujo
	// Primary é o erro de fn (ou do commit).
	// Em caso de panic a transação é revertida, a conexão liberada e o panic re-lançado.
	Execute(ctx context.Context, fn func(ctx context.Context, conn Connection) error) error
}

type unitOfWork struct {
	provider database.Provider
	options  *database.TxOptions
	obs      observability.Observability

	transactions observability.Counter
	duration     observability.Histogram
	active       observability.UpDownCounter
}

// Option configura o UnitOfWork.
type Option func(*unitOfWork)

// WithIsolationLevel configura o nível de isolamento da transação.
// Exemplo: WithIsolationLevel(sql.LevelSerializable).
func WithIsolationLevel(level sql.IsolationLevel) Option {
	return func(u *unitOfWork) {
		if u.options == nil {
			u.options = &database.TxOptions{}
		}
		u.options.Isolation = level
	}
}

// WithReadOnly configura a transação como somente leitura.
func WithReadOnly(readOnly bool) Option {
	return func(u *unitOfWork) {
		if u.options == nil {
			u.options = &database.TxOptions{}
		}
		u.options.ReadOnly = readOnly
	}
}

// WithObservability define logger, tracer e métricas. O padrão é noop.
func WithObservability(obs observability.Observability) Option {
	return func(u *unitOfWork) {
		if obs != nil {
			u.obs = obs
		}
	}
}

// NewUnitOfWork cria um UnitOfWork sobre provider.
// Nenhuma conexão é adquirida até a primeira chamada de Execute.
func NewUnitOfWork(provider database.Provider, opts ...Option) (UnitOfWork, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: connection provider is nil", database.ErrInvalidArgument)
	}

	u := &unitOfWork{
		provider: provider,
		obs:      noop.NewProvider(),
	}
	for _, opt := range opts {
		opt(u)
	}

	metrics := u.obs.Metrics()
	u.transactions = metrics.Counter(observability.MetricTransactions, "Finished transactions by outcome", "1")
	u.duration = metrics.Histogram(observability.MetricTransactionDuration, "Transaction duration from acquire to release", "ms")
	u.active = metrics.UpDownCounter(observability.MetricActiveTransactions, "Transactions currently open", "1")

	return u, nil
}

// MustNewUnitOfWork é como NewUnitOfWork mas entra em panic se provider for nil.
// Isso indica um erro de programação e deve ser corrigido no código do chamador.
func MustNewUnitOfWork(provider database.Provider, opts ...Option) UnitOfWork {
	u, err := NewUnitOfWork(provider, opts...)
	if err != nil {
		panic(err)
	}
	return u
}

func (u *unitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, conn Connection) error) error {
	if fn == nil {
		return fmt.Errorf("%w: unit of work function is nil", database.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before transaction start: %w", err)
	}

	txID := uuid.NewString()
	ctx, span := u.obs.Tracer().Start(ctx, observability.SpanExecute,
		observability.WithSpanKind(observability.SpanKindClient),
		observability.WithAttributes(observability.TxID(txID)),
	)
	defer span.End()
	logger := u.obs.Logger().With(observability.TxID(txID))
	start := time.Now()

	raw, err := u.provider.Acquire(ctx)
	if err != nil {
		err = database.WrapDriverError("acquire connection", err)
		span.RecordError(err)
		span.SetStatus(observability.StatusCodeError, err.Error())
		logger.Error(ctx, "failed to acquire connection", observability.Error(err))
		return err
	}

	registry := scope.New()
	registry.Register(func() error {
		return database.WrapDriverError("close connection", raw.Close())
	})

	if err := raw.SetAutoCommit(ctx, false, u.options); err != nil {
		err = scope.Join(database.WrapDriverError("begin transaction", err), registry.Close())
		span.RecordError(err)
		span.SetStatus(observability.StatusCodeError, err.Error())
		logger.Error(ctx, "failed to begin transaction", observability.Error(err))
		return err
	}

	u.active.Add(ctx, 1)
	defer u.active.Add(ctx, -1)

	// A rollback só é emitida se o commit não aconteceu.
	var committed bool
	registry.Register(func() error {
		if committed {
			return nil
		}
		return database.WrapDriverError("rollback", raw.Rollback(context.WithoutCancel(ctx)))
	})

	conn := newConnection(raw, logger)
	defer func() {
		if p := recover(); p != nil {
			conn.release()
			if closeErr := registry.Close(); closeErr != nil {
				logger.Error(ctx, "teardown failed after panic", observability.Error(closeErr))
			}
			u.record(ctx, start, false)
			span.SetStatus(observability.StatusCodeError, fmt.Sprintf("panic: %v", p))
			panic(p)
		}
	}()

	logger.Debug(ctx, "transaction started")
	workErr := u.run(ctx, raw, conn, fn, &committed)
	conn.release()

	err = scope.Join(workErr, registry.Close())
	u.record(ctx, start, committed)

	switch {
	case err == nil:
		span.SetStatus(observability.StatusCodeOK, "")
		logger.Debug(ctx, "transaction committed")
	case committed:
		span.RecordError(err)
		span.SetStatus(observability.StatusCodeError, err.Error())
		logger.Error(ctx, "transaction committed but releasing the connection failed", observability.Error(err))
	default:
		span.RecordError(err)
		span.SetStatus(observability.StatusCodeError, err.Error())
		logger.Error(ctx, "transaction rolled back", observability.Error(err))
	}
	return err
}

func (u *unitOfWork) run(ctx context.Context, raw database.Conn, conn Connection, fn func(context.Context, Connection) error, committed *bool) error {
	if err := fn(ctx, conn); err != nil {
		return err
	}

	// Verificar se o context foi cancelado durante a execução
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled during transaction: %w", err)
	}

	if err := raw.Commit(ctx); err != nil {
		return database.WrapDriverError("commit", err)
	}
	*committed = true
	return nil
}

func (u *unitOfWork) record(ctx context.Context, start time.Time, committed bool) {
	outcome := observability.OutcomeRolledBack
	if committed {
		outcome = observability.OutcomeCommitted
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	u.transactions.Increment(ctx, observability.Outcome(outcome))
	u.duration.Record(ctx, elapsed, observability.Outcome(outcome))
}

// ExecuteWithResult roda fn como Execute e devolve o valor produzido.
// O valor só é retornado após um commit bem-sucedido; caso contrário o
// retorno é o valor zero de T junto com o erro.
func ExecuteWithResult[T any](ctx context.Context, u UnitOfWork, fn func(ctx context.Context, conn Connection) (T, error)) (T, error) {
	var zero T
	if u == nil {
		return zero, fmt.Errorf("%w: unit of work is nil", database.ErrInvalidArgument)
	}
	if fn == nil {
		return zero, fmt.Errorf("%w: unit of work function is nil", database.ErrInvalidArgument)
	}

	var result T
	err := u.Execute(ctx, func(ctx context.Context, conn Connection) error {
		v, err := fn(ctx, conn)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
