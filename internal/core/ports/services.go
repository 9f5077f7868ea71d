package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"simple-bank-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CredentialHasher turns a password into a one-way verifier and checks it.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(secret string, verifier string) (bool, error)
}

// TokenService handles JWT bearer tokens bound to a session.
type TokenService interface {
	Generate(accountID uuid.UUID, sessionID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	SessionID string
}

// --- Service Ports (Business Logic) ---

// AuthService registers and authenticates account holders.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
}

// RegisterRequest holds input for registration.
type RegisterRequest struct {
	FullName       string
	Username       string
	Password       string
	InitialDeposit decimal.Decimal
}

// LedgerService is the set of balance-affecting and read operations.
type LedgerService interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	History(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
	AccountDetails(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

// TransferRequest addresses the recipient by account number.
type TransferRequest struct {
	SenderID               uuid.UUID
	RecipientAccountNumber string
	Amount                 decimal.Decimal
}

// TransferResult is returned by a successful transfer.
type TransferResult struct {
	SenderBalance          decimal.Decimal
	RecipientName          string
	RecipientAccountNumber string
	Debit                  domain.Transaction
	Credit                 domain.Transaction
}

// SessionService manages login sessions.
type SessionService interface {
	Open(ctx context.Context, accountID uuid.UUID) (*domain.Session, error)
	Resolve(ctx context.Context, sessionID string) (uuid.UUID, error)
	Close(ctx context.Context, sessionID string) error
}
