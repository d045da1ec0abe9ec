package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// GetQuerier returns the transaction carried by ctx, falling back to the pool
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// WithTransaction runs fn in a transaction and commits when fn returns nil.
// Called inside another transaction it opens a savepoint instead, so an inner
// failure only unwinds the inner work.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) (err error) {
	var tx pgx.Tx
	if outer, ok := txFromContext(ctx); ok {
		tx, err = outer.Begin(ctx)
	} else {
		tx, err = db.BeginTx(ctx)
	}
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// rollback must still reach the server after the request context is cancelled
	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(cleanupCtx); rbErr != nil {
				slog.Error("rollback after panic failed", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(cleanupCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type transactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) database.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}
