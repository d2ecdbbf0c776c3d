package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/repository"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

type conversationFixture struct {
	service       *ConversationService
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	resolutions   repository.ResolutionRepository
}

func newConversationFixture() *conversationFixture {
	conversations := repository.NewMemoryConversationRepository()
	messages := repository.NewMemoryMessageRepository()
	customers := repository.NewMemoryCustomerRepository()
	resolutions := repository.NewMemoryResolutionRepository()
	svc := NewConversationService(ConversationDependencies{
		ConversationRepo: conversations,
		MessageRepo:      messages,
		CustomerRepo:     customers,
		ResolutionRepo:   resolutions,
	})
	return &conversationFixture{
		service:       svc,
		conversations: conversations,
		messages:      messages,
		resolutions:   resolutions,
	}
}

func TestCreateConversationDefaults(t *testing.T) {
	fx := newConversationFixture()

	conversation, err := fx.service.Create(context.Background(), ConversationCreateInput{
		CustomerName:   "Alice",
		Channel:        "web_chat",
		InitialMessage: "Help",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StateOpen, conversation.State)
	assert.Equal(t, domain.SeverityP2, conversation.Severity)
	assert.Equal(t, domain.SentimentNeutral, conversation.Sentiment)
	assert.Equal(t, 1, conversation.MessageCount)
	assert.Equal(t, []string{"web_chat"}, conversation.ChannelsUsed)
	assert.NotNil(t, conversation.LastMessageAt)
	assert.False(t, conversation.SLA.FirstResponseDueAt.IsZero())
	assert.True(t, conversation.SLA.ResolutionDueAt.After(conversation.SLA.FirstResponseDueAt))

	messages, err := fx.messages.ListByConversation(context.Background(), conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.DirectionInbound, messages[0].Direction)
	assert.Equal(t, domain.SenderCustomer, messages[0].SenderType)
	assert.Equal(t, "Help", messages[0].Content)
}

func TestCreateConversationUnknownCustomer(t *testing.T) {
	fx := newConversationFixture()

	_, err := fx.service.Create(context.Background(), ConversationCreateInput{CustomerID: "cust_missing"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPostMessageStateTransitions(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice", InitialMessage: "Help"})
	require.NoError(t, err)

	_, updated, err := fx.service.PostMessage(ctx, conversation.ID, MessageInput{
		Direction:  domain.DirectionOutbound,
		SenderType: domain.SenderAgent,
		Content:    "Looking into it",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingCustomer, updated.State)

	_, updated, err = fx.service.PostMessage(ctx, conversation.ID, MessageInput{
		Direction:  domain.DirectionInbound,
		SenderType: domain.SenderCustomer,
		Content:    "Still broken",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingAgent, updated.State)
}

func TestPostMessageOtherCombinationsKeepState(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice"})
	require.NoError(t, err)

	// An internal note is neither agent-outbound nor customer-inbound, so
	// the state stays put while bookkeeping still applies.
	_, updated, err := fx.service.PostMessage(ctx, conversation.ID, MessageInput{
		Direction:  domain.DirectionInternal,
		SenderType: domain.SenderAgent,
		Content:    "checking logs",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateOpen, updated.State)
	assert.Equal(t, 1, updated.MessageCount)
	assert.NotNil(t, updated.LastMessageAt)
}

func TestMessageCountMatchesStoredSequence(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice", InitialMessage: "Help"})
	require.NoError(t, err)

	inputs := []MessageInput{
		{Direction: domain.DirectionOutbound, SenderType: domain.SenderAgent, Content: "a"},
		{Direction: domain.DirectionInbound, SenderType: domain.SenderCustomer, Content: "b"},
		{Direction: domain.DirectionInternal, SenderType: domain.SenderSystem, Content: "c"},
	}
	for _, input := range inputs {
		_, _, err := fx.service.PostMessage(ctx, conversation.ID, input)
		require.NoError(t, err)
	}

	updated, messages, err := fx.service.Get(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, len(messages), updated.MessageCount)
	assert.Equal(t, 4, updated.MessageCount)
}

func TestPostMessageTracksChannels(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice", Channel: "web_chat"})
	require.NoError(t, err)

	_, updated, err := fx.service.PostMessage(ctx, conversation.ID, MessageInput{
		Channel:    "email",
		Direction:  domain.DirectionInbound,
		SenderType: domain.SenderCustomer,
		Content:    "following up by mail",
	})
	require.NoError(t, err)
	assert.Equal(t, "email", updated.CurrentChannel)
	assert.Equal(t, []string{"web_chat", "email"}, updated.ChannelsUsed)
}

func TestAssign(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice"})
	require.NoError(t, err)

	teamID := "team_platform"
	updated, err := fx.service.Assign(ctx, conversation.ID, "agent_1", &teamID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedAgentID)
	assert.Equal(t, "agent_1", *updated.AssignedAgentID)
	require.NotNil(t, updated.AssignedTeamID)
	assert.Equal(t, "team_platform", *updated.AssignedTeamID)
	assert.Equal(t, domain.StateAwaitingAgent, updated.State)
}

func TestEscalateWithResolution(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice", Subject: "Checkout down"})
	require.NoError(t, err)

	updated, resolution, err := fx.service.Escalate(ctx, conversation.ID, EscalateInput{
		Reason:           "outage",
		CreateResolution: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateEscalated, updated.State)
	require.NotNil(t, updated.ResolutionID)
	require.NotNil(t, resolution)
	assert.Equal(t, *updated.ResolutionID, resolution.ID)
	assert.Equal(t, domain.ResolutionInvestigating, resolution.Status)
	assert.Len(t, resolution.Timeline, 1)
	assert.Equal(t, updated.ID, resolution.ConversationID)
	// priority mirrors the conversation severity when not overridden
	assert.Equal(t, updated.Severity, resolution.Priority)

	messages, err := fx.messages.ListByConversation(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.DirectionInternal, messages[0].Direction)
	assert.Equal(t, domain.SenderSystem, messages[0].SenderType)
	assert.Contains(t, messages[0].Content, "outage")
	assert.Equal(t, len(messages), updated.MessageCount)
}

func TestEscalateWithoutResolution(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice"})
	require.NoError(t, err)

	updated, resolution, err := fx.service.Escalate(ctx, conversation.ID, EscalateInput{Reason: "needs specialist"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateEscalated, updated.State)
	assert.Nil(t, updated.ResolutionID)
	assert.Nil(t, resolution)
}

func TestEscalateResolvedConversationFails(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice"})
	require.NoError(t, err)
	_, err = fx.service.Resolve(ctx, conversation.ID, "")
	require.NoError(t, err)

	_, _, err = fx.service.Escalate(ctx, conversation.ID, EscalateInput{Reason: "too late"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestResolve(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice", InitialMessage: "Help"})
	require.NoError(t, err)

	updated, err := fx.service.Resolve(ctx, conversation.ID, "fixed the config")
	require.NoError(t, err)
	assert.Equal(t, domain.StateResolved, updated.State)
	require.NotNil(t, updated.ResolvedAt)

	messages, err := fx.messages.ListByConversation(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	last := messages[len(messages)-1]
	assert.Equal(t, domain.SenderSystem, last.SenderType)
	assert.Contains(t, last.Content, "fixed the config")
	assert.Equal(t, len(messages), updated.MessageCount)
}

func TestScenarioCreateMessagePingPongResolve(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	conversation, err := fx.service.Create(ctx, ConversationCreateInput{
		CustomerName:   "Alice",
		Channel:        "web_chat",
		InitialMessage: "Help",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateOpen, conversation.State)
	assert.Equal(t, 1, conversation.MessageCount)

	_, updated, err := fx.service.PostMessage(ctx, conversation.ID, MessageInput{
		Direction: domain.DirectionOutbound, SenderType: domain.SenderAgent, Content: "On it",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingCustomer, updated.State)

	_, updated, err = fx.service.PostMessage(ctx, conversation.ID, MessageInput{
		Direction: domain.DirectionInbound, SenderType: domain.SenderCustomer, Content: "Thanks",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingAgent, updated.State)

	resolved, err := fx.service.Resolve(ctx, conversation.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateResolved, resolved.State)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestListFiltersAndSeverityOrder(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	for _, severity := range []domain.Severity{domain.SeverityP3, domain.SeverityP1, domain.SeverityP0, domain.SeverityP2} {
		_, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice", Severity: severity})
		require.NoError(t, err)
	}

	conversations, total, err := fx.service.List(ctx, ListFilter{
		Severities: []domain.Severity{domain.SeverityP0, domain.SeverityP1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, conversations, 2)
	assert.Equal(t, domain.SeverityP0, conversations[0].Severity)
	assert.Equal(t, domain.SeverityP1, conversations[1].Severity)
}

func TestListFilterByState(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	first, err := fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Alice"})
	require.NoError(t, err)
	_, err = fx.service.Create(ctx, ConversationCreateInput{CustomerName: "Bob"})
	require.NoError(t, err)
	_, err = fx.service.Resolve(ctx, first.ID, "")
	require.NoError(t, err)

	conversations, total, err := fx.service.List(ctx, ListFilter{
		States: []domain.ConversationState{domain.StateResolved},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, conversations, 1)
	assert.Equal(t, first.ID, conversations[0].ID)
}

func TestOperationsOnMissingConversation(t *testing.T) {
	fx := newConversationFixture()
	ctx := context.Background()

	_, _, err := fx.service.Get(ctx, "does-not-exist")
	assert.True(t, apperrors.IsNotFound(err))

	_, _, err = fx.service.PostMessage(ctx, "does-not-exist", MessageInput{Content: "hi"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = fx.service.Assign(ctx, "does-not-exist", "agent_1", nil)
	assert.True(t, apperrors.IsNotFound(err))

	_, _, err = fx.service.Escalate(ctx, "does-not-exist", EscalateInput{})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = fx.service.Resolve(ctx, "does-not-exist", "")
	assert.True(t, apperrors.IsNotFound(err))
}
