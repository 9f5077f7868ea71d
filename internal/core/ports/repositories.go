package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"simple-bank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside the caller's transaction.
type AccountRepository interface {
	// Create inserts a new account. A taken username yields apperror
	// AUTH_002; a taken account number yields ErrAccountNumberTaken.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	// AdjustBalance adds delta to the balance in one conditional statement and
	// returns the new balance. It fails with LED_001 instead of going negative.
	AdjustBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// TransactionRepository is the append-only ledger.
type TransactionRepository interface {
	// Append inserts t and fills its ID and CreatedAt.
	Append(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	// ListByAccount returns the account's entries in insertion order.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SessionStore persists login sessions with an idle TTL.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	// Touch returns the session's account and extends its expiry.
	// Returns uuid.Nil, nil if the session does not exist or has expired.
	Touch(ctx context.Context, sessionID string) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID string) error
}
