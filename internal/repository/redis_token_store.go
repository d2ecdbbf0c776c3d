package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/conversation-service/internal/domain"
)

const tokenKeyPrefix = "auth:token:"

type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore builds a Redis-backed token store. Unlike the memory
// backend it evicts tokens at their advisory expiry via key TTL.
func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

type redisToken struct {
	AgentID   string           `json:"agent_id"`
	Email     string           `json:"email"`
	Role      domain.AgentRole `json:"role"`
	Name      string           `json:"name"`
	IssuedAt  time.Time        `json:"issued_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (s *redisTokenStore) Save(ctx context.Context, token *domain.Token) error {
	payload, err := json.Marshal(redisToken{
		AgentID:   token.AgentID,
		Email:     token.Email,
		Role:      token.Role,
		Name:      token.Name,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tokenKeyPrefix+token.Value, payload, TTLFor(token, time.Now())).Err()
}

func (s *redisTokenStore) Get(ctx context.Context, value string) (*domain.Token, error) {
	payload, err := s.client.Get(ctx, tokenKeyPrefix+value).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var stored redisToken
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}
	return &domain.Token{
		Value:     value,
		AgentID:   stored.AgentID,
		Email:     stored.Email,
		Role:      stored.Role,
		Name:      stored.Name,
		IssuedAt:  stored.IssuedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}
