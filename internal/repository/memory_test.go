package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/conversation-service/internal/domain"
)

func seedConversation(t *testing.T, repo ConversationRepository, id string, severity domain.Severity, state domain.ConversationState) {
	t.Helper()
	now := time.Now()
	err := repo.Create(context.Background(), &domain.Conversation{
		ID:         id,
		CustomerID: "cust_1",
		State:      state,
		Severity:   severity,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
}

func TestMemoryConversationSeverityOrdering(t *testing.T) {
	repo := NewMemoryConversationRepository()
	seedConversation(t, repo, "c1", domain.SeverityP3, domain.StateOpen)
	seedConversation(t, repo, "c2", domain.SeverityP0, domain.StateOpen)
	seedConversation(t, repo, "c3", domain.Severity("P9"), domain.StateOpen)
	seedConversation(t, repo, "c4", domain.SeverityP1, domain.StateOpen)

	conversations, total, err := repo.ListWithFilter(context.Background(), ConversationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	ids := make([]string, 0, len(conversations))
	for _, conversation := range conversations {
		ids = append(ids, conversation.ID)
	}
	// unknown severity sorts last
	assert.Equal(t, []string{"c2", "c4", "c1", "c3"}, ids)
}

func TestMemoryConversationFilterAndAcrossFields(t *testing.T) {
	repo := NewMemoryConversationRepository()
	seedConversation(t, repo, "c1", domain.SeverityP0, domain.StateOpen)
	seedConversation(t, repo, "c2", domain.SeverityP0, domain.StateResolved)
	seedConversation(t, repo, "c3", domain.SeverityP2, domain.StateOpen)

	conversations, total, err := repo.ListWithFilter(context.Background(), ConversationFilter{
		States:     []domain.ConversationState{domain.StateOpen},
		Severities: []domain.Severity{domain.SeverityP0},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, conversations, 1)
	assert.Equal(t, "c1", conversations[0].ID)
}

func TestMemoryConversationPagination(t *testing.T) {
	repo := NewMemoryConversationRepository()
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		seedConversation(t, repo, id, domain.SeverityP2, domain.StateOpen)
	}

	conversations, total, err := repo.ListWithFilter(context.Background(), ConversationFilter{
		Page: Page{Number: 2, Size: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, conversations, 2)
	assert.Equal(t, "c3", conversations[0].ID)
	assert.Equal(t, "c4", conversations[1].ID)
}

func TestMemoryConversationUpdateMissing(t *testing.T) {
	repo := NewMemoryConversationRepository()
	err := repo.Update(context.Background(), &domain.Conversation{ID: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMessagesPreserveInsertionOrder(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()
	for i, content := range []string{"first", "second", "third"} {
		err := repo.Create(ctx, &domain.Message{
			ID:             string(rune('a' + i)),
			ConversationID: "conv_1",
			Content:        content,
			CreatedAt:      time.Now(),
		})
		require.NoError(t, err)
	}

	messages, err := repo.ListByConversation(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)

	count, err := repo.CountByConversation(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMemoryCustomerEmailLookupIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryCustomerRepository()
	ctx := context.Background()
	err := repo.Create(ctx, &domain.Customer{ID: "cust_1", Name: "Alice", Email: "Alice@Example.com"})
	require.NoError(t, err)

	customer, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cust_1", customer.ID)
}

func TestMemoryResolutionCloneIsolatesTimeline(t *testing.T) {
	repo := NewMemoryResolutionRepository()
	ctx := context.Background()
	resolution := &domain.Resolution{
		ID:             "res_1",
		ConversationID: "conv_1",
		Status:         domain.ResolutionInvestigating,
	}
	resolution.AppendTimeline(time.Now(), "created")
	require.NoError(t, repo.Create(ctx, resolution))

	fetched, err := repo.GetByID(ctx, "res_1")
	require.NoError(t, err)
	fetched.AppendTimeline(time.Now(), "tampered")

	again, err := repo.GetByID(ctx, "res_1")
	require.NoError(t, err)
	assert.Len(t, again.Timeline, 1)
}

func TestMemoryTokenStoreRoundTrip(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()
	token := &domain.Token{
		Value:     "tok_abc",
		AgentID:   "agent_1",
		Email:     "agent@example.com",
		Role:      domain.RoleAgent,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, token))

	fetched, err := store.Get(ctx, "tok_abc")
	require.NoError(t, err)
	assert.Equal(t, "agent_1", fetched.AgentID)

	_, err = store.Get(ctx, "tok_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
