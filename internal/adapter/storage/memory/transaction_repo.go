package memory

import (
	"context"
	"fmt"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Append assigns the next ID and stores t. IDs consumed by a rolled-back
// transaction are not reused.
func (r *TransactionRepo) Append(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	mt, err := activeTx(r.store, tx)
	if err != nil {
		return err
	}
	s := r.store

	if !t.Kind.Valid() {
		return fmt.Errorf("insert transaction: unknown kind %q", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if _, ok := s.accounts[t.AccountID]; !ok {
		return apperror.ErrAccountNotFound()
	}

	s.nextTxID++
	t.ID = s.nextTxID
	t.CreatedAt = s.now()

	entry := *t
	if t.CounterpartyID != nil {
		cp := *t.CounterpartyID
		entry.CounterpartyID = &cp
	}

	s.txns = append(s.txns, entry)
	s.byAccount[t.AccountID] = append(s.byAccount[t.AccountID], len(s.txns)-1)

	mt.record(func() {
		s.txns = s.txns[:len(s.txns)-1]
		idx := s.byAccount[entry.AccountID]
		s.byAccount[entry.AccountID] = idx[:len(idx)-1]
	})
	return nil
}

// ListByAccount returns the account's entries, oldest first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)
	err := r.store.view(ctx, func() error {
		for _, i := range r.store.byAccount[accountID] {
			out = append(out, r.store.txns[i])
		}
		return nil
	})
	return out, err
}
