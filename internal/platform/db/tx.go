package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// WithTx runs fn inside a single transaction. The transaction is bound to the
// context passed to fn, so every repository call made through that context
// resolves to the same transaction and either all writes commit together or
// none do. If fn returns an error the transaction is rolled back and the
// error is returned unchanged.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	// Nested calls join the transaction already bound to the context; the
	// outermost caller owns the commit.
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// TxRunner is the function shape services depend on to get transactional
// scope without holding a pool themselves.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// RunnerFor returns a TxRunner bound to the pool.
func RunnerFor(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return WithTx(ctx, pool, fn)
	}
}

// TxFromContext retrieves the transaction bound to the context, or nil when
// the caller did not open one.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}
