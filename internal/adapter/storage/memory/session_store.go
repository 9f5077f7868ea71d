package memory

import (
	"context"
	"sync"
	"time"

	"simple-bank-ledger/internal/core/domain"

	"github.com/google/uuid"
)

type sessionEntry struct {
	accountID uuid.UUID
	expiresAt time.Time
}

// SessionStore implements ports.SessionStore with an idle TTL in process memory.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]sessionEntry
	now      func() time.Time
}

// NewSessionStore creates a session store whose entries expire after ttl
// without a Touch.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = sessionEntry{
		accountID: session.AccountID,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *SessionStore) Touch(ctx context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return uuid.Nil, nil
	}
	now := s.now()
	if !now.Before(e.expiresAt) {
		delete(s.sessions, sessionID)
		return uuid.Nil, nil
	}
	e.expiresAt = now.Add(s.ttl)
	s.sessions[sessionID] = e
	return e.accountID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
