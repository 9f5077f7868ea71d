package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionServiceImpl implements ports.SessionService.
type SessionServiceImpl struct {
	store ports.SessionStore
	ttl   time.Duration
	log   zerolog.Logger
}

// NewSessionService creates a new SessionServiceImpl. ttl is the idle
// timeout; it is enforced by the store.
func NewSessionService(store ports.SessionStore, ttl time.Duration, log zerolog.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{store: store, ttl: ttl, log: log}
}

// Open starts a session for an authenticated account.
func (s *SessionServiceImpl) Open(ctx context.Context, accountID uuid.UUID) (*domain.Session, error) {
	id, err := generateRandomHex(32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate session id: %w", err))
	}

	session := &domain.Session{
		ID:        id,
		AccountID: accountID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, classify("save session", err)
	}

	s.log.Info().Str("account_id", accountID.String()).Msg("session opened")
	return session, nil
}

// Resolve returns the session's account and extends its idle timeout.
func (s *SessionServiceImpl) Resolve(ctx context.Context, sessionID string) (uuid.UUID, error) {
	if sessionID == "" {
		return uuid.Nil, apperror.ErrSessionExpired()
	}
	accountID, err := s.store.Touch(ctx, sessionID)
	if err != nil {
		return uuid.Nil, classify("touch session", err)
	}
	if accountID == uuid.Nil {
		return uuid.Nil, apperror.ErrSessionExpired()
	}
	return accountID, nil
}

// Close ends the session. Closing an unknown session succeeds.
func (s *SessionServiceImpl) Close(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return classify("delete session", err)
	}
	return nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
