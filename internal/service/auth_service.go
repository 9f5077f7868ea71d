package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxAccountNumberAttempts bounds regeneration on account number collisions.
const maxAccountNumberAttempts = 5

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	accounts    ports.AccountRepository
	hasher      ports.CredentialHasher
	policy      *RegistrationPolicy
	amountScale int32
	log         zerolog.Logger

	newAccountNumber func() (string, error)

	dummyOnce     sync.Once
	dummyVerifier string
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	accounts ports.AccountRepository,
	hasher ports.CredentialHasher,
	policy *RegistrationPolicy,
	amountScale int32,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		accounts:         accounts,
		hasher:           hasher,
		policy:           policy,
		amountScale:      amountScale,
		log:              log,
		newAccountNumber: generateAccountNumber,
	}
}

// Register validates the request and creates an account whose opening
// balance is the initial deposit.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Account, error) {
	if err := s.policy.Validate(req); err != nil {
		return nil, err
	}
	if !req.InitialDeposit.Equal(req.InitialDeposit.Truncate(s.amountScale)) {
		return nil, apperror.ErrValidation(FieldInitialDeposit,
			fmt.Sprintf("Initial deposit must have at most %d decimal places", s.amountScale))
	}

	// Skip the expensive hash for an obvious duplicate. The unique
	// constraint still decides races.
	existing, err := s.accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, classify("check username", err)
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	credential, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uuid.New(),
		FullName:   req.FullName,
		Username:   req.Username,
		Credential: credential,
		Balance:    req.InitialDeposit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for attempt := 1; ; attempt++ {
		account.AccountNumber, err = s.newAccountNumber()
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("generate account number: %w", err))
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, ports.ErrAccountNumberTaken) {
			return nil, classify("create account", err)
		}
		if attempt >= maxAccountNumberAttempts {
			return nil, apperror.InternalError(fmt.Errorf("create account: %d account number collisions: %w", attempt, err))
		}
		s.log.Warn().Int("attempt", attempt).Msg("account number collision, regenerating")
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("account_number", account.AccountNumber).
		Str("opening_balance", account.Balance.String()).
		Msg("account registered")

	return account, nil
}

// Authenticate returns the account if password matches. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, classify("find account", err)
	}
	if account == nil {
		// Spend the same verifier work as for a real account.
		_, _ = s.hasher.Verify(password, s.dummy())
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hasher.Verify(password, account.Credential)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		s.log.Info().Str("account_id", account.ID.String()).Msg("failed login")
		return nil, apperror.ErrInvalidCredentials()
	}

	return account, nil
}

func (s *AuthServiceImpl) dummy() string {
	s.dummyOnce.Do(func() {
		v, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Warn().Err(err).Msg("could not derive dummy verifier")
		}
		s.dummyVerifier = v
	})
	return s.dummyVerifier
}

// generateAccountNumber returns a random AccountNumberLength-digit number
// without a leading zero.
func generateAccountNumber() (string, error) {
	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(domain.AccountNumberLength-1), nil)
	span := new(big.Int).Mul(lo, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, lo).String(), nil
}
