package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/estudio/internal/db"
)

// FailOnNthExecUoW returns Err from the FailOn-th write of a transaction,
// counting from 1. Reads pass through. After WithinTx, Writes holds how many
// writes were attempted and RolledBack whether the transaction was undone.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	Writes     int32
	RolledBack bool
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin calendar tx: %w", err)
	}

	counted := &countingExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	fnErr := fn(ctx, counted)
	u.Writes = counted.n.Load()
	if fnErr != nil {
		u.RolledBack = tx.Rollback() == nil
		return fnErr
	}
	return tx.Commit()
}

type countingExec struct {
	db.DBTX
	n      atomic.Int32
	failOn int32
	err    error
}

func (c *countingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.n.Add(1) == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
