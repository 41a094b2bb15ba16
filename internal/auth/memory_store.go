package auth

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// MemorySessionStore keeps session state in-memory. It is safe for concurrent
// use and primarily intended for development or single-instance deployments.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

// NewMemorySessionStore constructs an in-memory store implementation.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

// Save records the session details for the provided token.
func (s *MemorySessionStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Get retrieves the user id for the provided token. Expired entries are
// dropped lazily.
func (s *MemorySessionStore) Get(ctx context.Context, token string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	record, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if time.Now().After(record.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", false, nil
	}
	return record.userID, true, nil
}

// Delete removes the session token from the store.
func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// PurgeExpired removes every session whose TTL has elapsed and reports how
// many tokens were dropped. Entries for tokens that are never presented
// again would otherwise accumulate.
func (s *MemorySessionStore) PurgeExpired() int {
	now := time.Now()
	purged := 0
	s.mu.Lock()
	for token, record := range s.sessions {
		if now.After(record.expiresAt) {
			delete(s.sessions, token)
			purged++
		}
	}
	s.mu.Unlock()
	return purged
}

// Ping always reports success for the in-memory session store.
func (s *MemorySessionStore) Ping(context.Context) error {
	return nil
}
