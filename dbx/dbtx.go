// Package dbx holds the small database/sql helpers shared by the accessors:
// the DBTX handle interface, a transaction runner and the statement builder.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"projects-system/errs"
)

// DBTX is the subset of database/sql used by the accessors.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction and commits when fn returns nil.
// Any other outcome, including a panic, rolls the transaction back. Errors
// from fn are returned as they are; begin, commit and rollback failures are
// storage faults.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return errs.Storage("tx.begin", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err != nil {
			err = errors.Join(err, errs.Storage("tx.rollback", rbErr))
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.Storage("tx.commit", err)
	}
	done = true
	return nil
}
