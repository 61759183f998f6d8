package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Transactor interface {
	WithTx(ctx context.Context, function func(ctx context.Context) error) error
}

var _ Transactor = (*transactorImpl)(nil)

type transactorImpl struct {
	db *DB
}

func NewTransactor(db *DB) *transactorImpl {
	return &transactorImpl{db: db}
}

// WithTx runs function in a transaction carried by its context. Nested calls
// join the outer transaction.
func (t *transactorImpl) WithTx(ctx context.Context, function func(ctx context.Context) error) (txErr error) {
	ctxWithTx, tx, owned, err := injectTx(ctx, t.db)
	if err != nil {
		return errors.Wrap(err, "can not inject transaction")
	}
	if !owned {
		return function(ctxWithTx)
	}

	defer func() {
		if txErr != nil {
			if err := tx.Rollback(ctxWithTx); err != nil {
				log.Error().Err(err).Msg("rollback")
			}
			return
		}
		if err := tx.Commit(ctxWithTx); err != nil {
			log.Error().Err(err).Msg("commit")
			txErr = errors.Wrap(err, "commit")
		}
	}()

	return function(ctxWithTx)
}

type txInjector struct{}

func injectTx(ctx context.Context, db *DB) (context.Context, pgx.Tx, bool, error) {
	if tx, ok := extractTx(ctx); ok {
		return ctx, tx, false, nil
	}
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	return context.WithValue(ctx, txInjector{}, tx), tx, true, nil
}

func extractTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txInjector{}).(pgx.Tx)
	return tx, ok && tx != nil
}

type execQueryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (db *DB) execQueryer(ctx context.Context) execQueryer {
	if tx, ok := extractTx(ctx); ok {
		return tx
	}
	return db.Pool
}
