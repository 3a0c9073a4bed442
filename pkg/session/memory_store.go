package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by the test suite and for
// running the portal without redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	expires  map[int64]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		expires:  make(map[int64]time.Time),
	}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.AccountID] = &cp
	s.expires[sess.AccountID] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, accountID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[accountID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(s.expires[accountID]) {
		delete(s.sessions, accountID)
		delete(s.expires, accountID)
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, accountID)
	delete(s.expires, accountID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
