package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// TokenStore maps opaque bearer strings to agent identities. Tokens are
// ephemeral: process lifetime for the memory backend, TTL-evicted for Redis.
type TokenStore interface {
	Save(ctx context.Context, token *domain.Token) error
	Get(ctx context.Context, value string) (*domain.Token, error)
}

type memoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.Token
}

// NewMemoryTokenStore builds the in-process backend. Expiry is advisory and
// not enforced here.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{tokens: make(map[string]domain.Token)}
}

func (s *memoryTokenStore) Save(_ context.Context, token *domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Value] = *token
	return nil
}

func (s *memoryTokenStore) Get(_ context.Context, value string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[value]
	if !ok {
		return nil, ErrNotFound
	}
	return &token, nil
}

// TTLFor returns the remaining lifetime for a token, floored at one minute
// so a token issued moments before its advisory expiry still stores.
func TTLFor(token *domain.Token, now time.Time) time.Duration {
	ttl := token.ExpiresAt.Sub(now)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}
