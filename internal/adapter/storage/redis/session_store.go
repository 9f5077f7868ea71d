package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simple-bank-ledger/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// SessionStore implements ports.SessionStore. Each session is one key whose
// TTL is the idle timeout; Touch re-arms it.
type SessionStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a new Redis-backed session store.
func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Save stores the session with a fresh idle TTL.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.client.Set(ctx, s.prefix+session.ID, session.AccountID.String(), s.ttl).Err(); err != nil {
		return translateError("redis session save", err)
	}
	return nil
}

// Touch reads the session and extends its TTL in one MULTI/EXEC.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) (uuid.UUID, error) {
	key := s.prefix + sessionID

	var get *goredis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, nil
		}
		return uuid.Nil, translateError("redis session touch", err)
	}

	accountID, err := uuid.Parse(get.Val())
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis session %s: corrupt value: %w", sessionID, err)
	}
	return accountID, nil
}

// Delete removes the session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return translateError("redis session delete", err)
	}
	return nil
}
