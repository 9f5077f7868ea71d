package memory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errUnsupported = errors.New("memory: operation not supported")

// Transactor implements ports.DBTransactor for the memory store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor bound to store.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin waits for exclusive access to the store and returns a transaction
// holding it until Commit or Rollback.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := t.store.acquire(ctx); err != nil {
		return nil, err
	}
	return &memTx{store: t.store}, nil
}

// memTx records an undo step for every write so Rollback can restore the
// state as of Begin.
type memTx struct {
	store  *Store
	undo   []func()
	closed bool
}

func (t *memTx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.undo = nil
	t.store.release()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.closed = true
	t.undo = nil
	t.store.release()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errUnsupported }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errUnsupported
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return unsupportedBatch{}
}
func (t *memTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errUnsupported
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errUnsupported
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errUnsupported
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return unsupportedRow{}
}
func (t *memTx) Conn() *pgx.Conn { return nil }

// unsupportedRow and unsupportedBatch report errUnsupported on first use.
type unsupportedRow struct{}

func (unsupportedRow) Scan(dest ...any) error { return errUnsupported }

type unsupportedBatch struct{}

func (unsupportedBatch) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, errUnsupported }
func (unsupportedBatch) Query() (pgx.Rows, error)         { return nil, errUnsupported }
func (unsupportedBatch) QueryRow() pgx.Row                { return unsupportedRow{} }
func (unsupportedBatch) Close() error                     { return nil }

// activeTx unwraps tx and checks that it is an open transaction of store.
func activeTx(store *Store, tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != store {
		return nil, errors.New("memory: transaction does not belong to this store")
	}
	if mt.closed {
		return nil, pgx.ErrTxClosed
	}
	return mt, nil
}
