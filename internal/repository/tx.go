package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the querier shared by *sql.DB and *sql.Tx. Repository methods
// accept a DBTX so services can scope read-check-write sequences inside one
// transaction; passing nil runs the statement against the pool.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// WithTx runs fn inside a read-committed transaction, rolling back on error.
// Read-committed is enough here: the checks and writes in fn hit the same
// rows, so a conflicting concurrent commit surfaces as a constraint or
// row-lock conflict rather than a silently stale read.
func WithTx(ctx context.Context, db *sql.DB, fn func(q DBTX) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
