package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ourdays/internal/domain"
)

type transactor struct {
	DB   *sql.DB
	opts *sql.TxOptions
}

// NewTransactor returns a domain.Transactor backed by database/sql transactions.
func NewTransactor(db *sql.DB) domain.Transactor {
	return &transactor{DB: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	tx, err := t.DB.BeginTx(ctx, t.opts)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	// No-op after a successful commit; also runs when fn panics.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
