package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memToken struct {
	playerID  uuid.UUID
	expiresAt time.Time
}

func (t memToken) expired(now time.Time) bool {
	return !t.expiresAt.IsZero() && now.After(t.expiresAt)
}

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memToken
	now    func() time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		tokens: make(map[string]memToken),
		now:    time.Now,
	}
}

func (s *memoryTokenStore) Save(_ context.Context, jti string, playerID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := memToken{playerID: playerID}
	if ttl > 0 {
		t.expiresAt = s.now().Add(ttl)
	}
	s.tokens[refreshKeyPrefix+jti] = t
	return nil
}

func (s *memoryTokenStore) Lookup(_ context.Context, jti string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := refreshKeyPrefix + jti
	t, ok := s.tokens[key]
	if !ok {
		return uuid.Nil, nil
	}
	if t.expired(s.now()) {
		delete(s.tokens, key)
		return uuid.Nil, nil
	}
	return t.playerID, nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, refreshKeyPrefix+jti)
	return nil
}
