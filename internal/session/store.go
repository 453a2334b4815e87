package session

import (
	"context"
	"sync"
)

// Store persists sessions between requests. The storefront runs one request
// per session at a time, so implementations only need to be safe across
// distinct sessions.
type Store interface {
	Load(ctx context.Context, id string) (*Session, bool, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// MemStore keeps sessions in process memory, keyed by session id. Sessions
// vanish on restart, which matches the tutorial scope; anything longer-lived
// belongs behind the same interface.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]*Session
}

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]*Session)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context, id string) (*Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.m[id]
	return sess, ok, nil
}

func (s *MemStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[sess.ID] = sess
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, id)
	return nil
}
