package memory

import (
	"context"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	store *Store
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(store *Store) *AccountRepo {
	return &AccountRepo{store: store}
}

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	s := r.store
	return s.view(ctx, func() error {
		if _, taken := s.byUsername[a.Username]; taken {
			return apperror.ErrUsernameExists()
		}
		if _, taken := s.byNumber[a.AccountNumber]; taken {
			return ports.ErrAccountNumberTaken
		}
		if a.Balance.IsNegative() {
			return apperror.ErrInsufficientFunds()
		}
		s.accounts[a.ID] = cloneAccount(a)
		s.byUsername[a.Username] = a.ID
		s.byNumber[a.AccountNumber] = a.ID
		return nil
	})
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.view(ctx, func() error {
		out = r.lookup(id)
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.view(ctx, func() error {
		if id, ok := r.store.byUsername[username]; ok {
			out = r.lookup(id)
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.view(ctx, func() error {
		if id, ok := r.store.byNumber[accountNumber]; ok {
			out = r.lookup(id)
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.store.view(ctx, func() error {
		a, ok := r.store.accounts[id]
		if !ok {
			return apperror.ErrAccountNotFound()
		}
		balance = a.Balance
		return nil
	})
	return balance, err
}

// GetByIDForUpdate reads the account inside tx. The transaction already
// holds the store exclusively, so no per-row lock is taken.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	if _, err := activeTx(r.store, tx); err != nil {
		return nil, err
	}
	return r.lookup(id), nil
}

// AdjustBalance adds delta unless the result would be negative.
func (r *AccountRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	mt, err := activeTx(r.store, tx)
	if err != nil {
		return decimal.Zero, err
	}

	a, ok := r.store.accounts[id]
	if !ok {
		return decimal.Zero, apperror.ErrAccountNotFound()
	}
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, apperror.ErrInsufficientFunds()
	}
	if next.GreaterThan(domain.MaxBalance) {
		return decimal.Zero, apperror.ErrAmountTooLarge(domain.MaxBalance.String())
	}

	prevBalance, prevUpdated := a.Balance, a.UpdatedAt
	mt.record(func() {
		a.Balance = prevBalance
		a.UpdatedAt = prevUpdated
	})
	a.Balance = next
	a.UpdatedAt = r.store.now()
	return next, nil
}

func (r *AccountRepo) lookup(id uuid.UUID) *domain.Account {
	a, ok := r.store.accounts[id]
	if !ok {
		return nil
	}
	return cloneAccount(a)
}
