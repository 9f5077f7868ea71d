// Package memory is a process-local implementation of the storage ports.
// It is used when database.driver is "memory" and by service tests that
// need real transactional behaviour without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"time"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// Store holds every account and ledger entry. A single-slot semaphore
// serializes transactions and reads, which makes every transaction
// serializable and readers never observe uncommitted state.
type Store struct {
	sem         chan struct{}
	lockTimeout time.Duration

	accounts   map[uuid.UUID]*domain.Account
	byUsername map[string]uuid.UUID
	byNumber   map[string]uuid.UUID
	txns       []domain.Transaction
	byAccount  map[uuid.UUID][]int // indexes into txns
	nextTxID   int64

	now func() time.Time
}

// NewStore creates an empty store. A positive lockTimeout bounds how long
// an operation waits for the store; exceeding it yields SYS_002.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		sem:         make(chan struct{}, 1),
		lockTimeout: lockTimeout,
		accounts:    make(map[uuid.UUID]*domain.Account),
		byUsername:  make(map[string]uuid.UUID),
		byNumber:    make(map[string]uuid.UUID),
		byAccount:   make(map[uuid.UUID][]int),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) acquire(ctx context.Context) error {
	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		return apperror.ErrTransientConflict(fmt.Errorf("memory store: lock wait exceeded %s", s.lockTimeout))
	}
}

func (s *Store) release() {
	<-s.sem
}

// view runs fn with exclusive access to the store data.
func (s *Store) view(ctx context.Context, fn func() error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return fn()
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}
