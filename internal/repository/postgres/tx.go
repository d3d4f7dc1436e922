package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taxdesk/internal/port"
)

type contextKey string

const txKey contextKey = "sqlx_tx"

// querier is the subset of sqlx operations shared by *sqlx.DB and *sqlx.Tx.
type querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type txManager struct {
	db *sqlx.DB
}

// NewTxManager creates a transaction manager that injects the running
// transaction into the context for repositories to pick up.
func NewTxManager(db *sqlx.DB) port.TxManager {
	return &txManager{db: db}
}

func (t *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("txManager.WithinTx begin: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("txManager.WithinTx rollback (%v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txManager.WithinTx commit: %w", err)
	}
	return nil
}

// q returns the transaction bound to ctx if present, otherwise the root pool.
func q(ctx context.Context, db *sqlx.DB) querier {
	if tx, ok := ctx.Value(txKey).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
