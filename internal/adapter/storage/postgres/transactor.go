package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor on the shared pool.
type Transactor struct {
	pool        Pool
	lockTimeout time.Duration
}

// NewTransactor creates a Transactor. A positive lockTimeout bounds how long
// any statement in the transaction waits for a row lock.
func NewTransactor(pool Pool, lockTimeout time.Duration) *Transactor {
	return &Transactor{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a new database transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, translateError("begin tx", err)
	}

	if t.lockTimeout > 0 {
		// SET does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, translateError("set lock timeout", err)
		}
	}
	return &pgTx{Tx: tx}, nil
}

// pgTx translates commit failures, such as a serialization failure
// reported at COMMIT, onto the apperror taxonomy.
type pgTx struct {
	pgx.Tx
}

func (t *pgTx) Commit(ctx context.Context) error {
	return translateError("commit tx", t.Tx.Commit(ctx))
}
