package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/conversation-service/internal/auth"
	"github.com/spec-kit/conversation-service/internal/config"
	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/repository"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

// AuthService coordinates agent login and token issuance.
type AuthService struct {
	agents     repository.AgentRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, agents repository.AgentRepository, tokens repository.TokenStore) *AuthService {
	return &AuthService{
		agents:     agents,
		tokenMgr:   auth.NewTokenManager(tokens, cfg.TokenTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates an agent and issues an opaque bearer token. Failures
// are uniform so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Agent, *domain.Token, error) {
	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(agent.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}
	token, err := s.tokenMgr.Issue(ctx, agent)
	if err != nil {
		return nil, nil, err
	}
	return agent, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// SeedAgents registers the bootstrap agents from config. Entries are
// name:email:password triples separated by commas; existing emails are kept.
func (s *AuthService) SeedAgents(ctx context.Context, entries string, logger *zap.Logger) error {
	for _, entry := range strings.Split(entries, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			logger.Warn("skipping malformed bootstrap agent entry", zap.String("entry", entry))
			continue
		}
		if _, err := s.agents.GetByEmail(ctx, parts[1]); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		hash, err := auth.HashPassword(parts[2], s.bcryptCost)
		if err != nil {
			return err
		}
		agent := &domain.Agent{
			ID:           newID("agent"),
			Name:         parts[0],
			Email:        parts[1],
			Role:         domain.RoleAgent,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}
		if err := s.agents.Create(ctx, agent); err != nil {
			return err
		}
		logger.Info("seeded bootstrap agent", zap.String("email", agent.Email))
	}
	return nil
}
