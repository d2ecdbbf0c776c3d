package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/conversation-service/internal/config"
	"github.com/spec-kit/conversation-service/internal/repository"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(
		config.AuthConfig{TokenTTLMinutes: 60, BcryptCost: 4},
		repository.NewMemoryAgentRepository(),
		repository.NewMemoryTokenStore(),
	)
	err := svc.SeedAgents(context.Background(), "Support Agent:agent@example.com:agent123", zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesToken(t *testing.T) {
	svc := newAuthFixture(t)

	agent, token, err := svc.Login(context.Background(), "agent@example.com", "agent123")
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", agent.Email)
	assert.NotEmpty(t, token.Value)
	assert.True(t, token.ExpiresAt.After(token.IssuedAt))

	resolved, err := svc.TokenManager().Validate(context.Background(), token.Value)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, resolved.AgentID)
	assert.Equal(t, agent.Email, resolved.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "agent@example.com", "nope")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperrors.ToDomainError(err).Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := newAuthFixture(t)

	_, _, wrongPassword := svc.Login(context.Background(), "agent@example.com", "nope")
	_, _, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "nope")

	// The two failures must be indistinguishable to the caller.
	assert.Equal(t,
		apperrors.ToDomainError(wrongPassword).Message,
		apperrors.ToDomainError(unknownEmail).Message,
	)
	assert.Equal(t, "INVALID_CREDENTIALS", apperrors.ToDomainError(unknownEmail).Code)
}

func TestValidateUnknownToken(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.TokenManager().Validate(context.Background(), "tok_bogus")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSeedAgentsSkipsExistingAndMalformed(t *testing.T) {
	svc := newAuthFixture(t)

	// re-seeding the same email plus garbage entries is harmless
	err := svc.SeedAgents(context.Background(), "Support Agent:agent@example.com:other, broken-entry", zap.NewNop())
	require.NoError(t, err)

	// original password still valid
	_, _, err = svc.Login(context.Background(), "agent@example.com", "agent123")
	assert.NoError(t, err)
}
