package postgres

import (
	"context"
	"fmt"

	"simple-bank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append inserts a ledger entry within a database transaction.
func (r *TransactionRepo) Append(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (account_id, kind, amount, counterparty_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		t.AccountID, string(t.Kind), t.Amount, t.CounterpartyID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return translateError("insert transaction", err)
	}
	return nil
}

// ListByAccount returns every entry of an account, oldest first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT id, account_id, kind, amount, counterparty_id, created_at
		FROM transactions WHERE account_id = $1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, translateError("list transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		t := domain.Transaction{}
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Amount, &t.CounterpartyID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("iterate transaction rows", err)
	}
	return txns, nil
}
