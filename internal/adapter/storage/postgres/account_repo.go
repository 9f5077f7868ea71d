package postgres

import (
	"context"
	"errors"
	"fmt"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, full_name, username, credential, account_number, balance, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account. Uniqueness is enforced by the store, so two
// concurrent registrations of one username cannot both succeed.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.FullName, a.Username, a.Credential,
		a.AccountNumber, a.Balance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		switch uniqueViolation(err) {
		case constraintUsername:
			return apperror.ErrUsernameExists()
		case constraintAccountNumber:
			return ports.ErrAccountNumberTaken
		}
		return translateError("insert account", err)
	}
	return nil
}

// GetByID fetches an account by its UUID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id), "get account by id")
}

// GetByUsername fetches an account by exact username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, username), "get account by username")
}

// GetByAccountNumber fetches an account by its public account number.
func (r *AccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, accountNumber), "get account by number")
}

// GetByIDForUpdate fetches an account with a row lock.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(tx.QueryRow(ctx, query, id), "get account for update")
}

// GetBalance reads the current balance.
func (r *AccountRepo) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperror.ErrAccountNotFound()
		}
		return decimal.Zero, translateError("get balance", err)
	}
	return balance, nil
}

// AdjustBalance applies delta as a single conditional update. The row is
// only touched if the result stays non-negative, so there is no window
// between the funds check and the write.
func (r *AccountRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance`

	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, delta, id).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, translateError("adjust balance", err)
	}

	// Zero rows: either the account is missing or the funds are.
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return decimal.Zero, translateError("check account exists", err)
	}
	if !exists {
		return decimal.Zero, apperror.ErrAccountNotFound()
	}
	return decimal.Zero, apperror.ErrInsufficientFunds()
}

// scanAccount scans a single row; a missing row yields nil, nil.
func (r *AccountRepo) scanAccount(row pgx.Row, op string) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.FullName, &a.Username, &a.Credential,
		&a.AccountNumber, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(op, fmt.Errorf("scan account: %w", err))
	}
	return a, nil
}
