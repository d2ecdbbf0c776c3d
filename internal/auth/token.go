package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/repository"
)

// TokenManager issues and validates opaque bearer tokens against a token
// store. Tokens carry no claims themselves; the identity lives server-side,
// so a token can be revoked by dropping it from the store.
type TokenManager struct {
	store repository.TokenStore
	ttl   time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(store repository.TokenStore, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenManager{store: store, ttl: ttl}
}

// Issue creates and stores a fresh token for the agent.
func (tm *TokenManager) Issue(ctx context.Context, agent *domain.Agent) (*domain.Token, error) {
	now := time.Now()
	token := &domain.Token{
		Value:     "tok_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		AgentID:   agent.ID,
		Email:     agent.Email,
		Role:      agent.Role,
		Name:      agent.Name,
		IssuedAt:  now,
		ExpiresAt: now.Add(tm.ttl),
	}
	if err := tm.store.Save(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Validate resolves a bearer string to its stored identity.
func (tm *TokenManager) Validate(ctx context.Context, value string) (*domain.Token, error) {
	return tm.store.Get(ctx, value)
}
