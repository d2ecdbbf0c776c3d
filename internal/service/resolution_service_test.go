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

type resolutionFixture struct {
	conversationSvc *ConversationService
	service         *ResolutionService
	conversations   repository.ConversationRepository
}

func newResolutionFixture() *resolutionFixture {
	conversations := repository.NewMemoryConversationRepository()
	resolutions := repository.NewMemoryResolutionRepository()
	conversationSvc := NewConversationService(ConversationDependencies{
		ConversationRepo: conversations,
		MessageRepo:      repository.NewMemoryMessageRepository(),
		CustomerRepo:     repository.NewMemoryCustomerRepository(),
		ResolutionRepo:   resolutions,
	})
	svc := NewResolutionService(ResolutionDependencies{
		ResolutionRepo:   resolutions,
		ConversationRepo: conversations,
	})
	return &resolutionFixture{conversationSvc: conversationSvc, service: svc, conversations: conversations}
}

func (fx *resolutionFixture) newConversation(t *testing.T) *domain.Conversation {
	t.Helper()
	conversation, err := fx.conversationSvc.Create(context.Background(), ConversationCreateInput{
		CustomerName: "Alice",
		Subject:      "Checkout down",
		Severity:     domain.SeverityP1,
	})
	require.NoError(t, err)
	return conversation
}

func TestCreateResolutionDirectly(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	resolution, err := fx.service.Create(ctx, ResolutionCreateInput{
		ConversationID: conversation.ID,
		Title:          "Checkout outage",
		Description:    "500s on payment submit",
		IssueType:      "bug",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionInvestigating, resolution.Status)
	assert.Equal(t, domain.SeverityP1, resolution.Priority)
	require.Len(t, resolution.Timeline, 1)
	assert.Equal(t, "created", resolution.Timeline[0].Event)

	// back-reference on the owning conversation
	updated, err := fx.conversations.GetByID(ctx, conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ResolutionID)
	assert.Equal(t, resolution.ID, *updated.ResolutionID)
}

func TestCreateSecondResolutionFails(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	_, err := fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.NoError(t, err)

	_, err = fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestCreateResolutionMissingConversation(t *testing.T) {
	fx := newResolutionFixture()

	_, err := fx.service.Create(context.Background(), ResolutionCreateInput{ConversationID: "does-not-exist"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatusAppendsTimeline(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	resolution, err := fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.NoError(t, err)

	status := domain.ResolutionAwaitingDeploy
	updated, err := fx.service.UpdateStatus(ctx, resolution.ID, ResolutionUpdateInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionAwaitingDeploy, updated.Status)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, "investigating -> awaiting_deploy", updated.Timeline[1].Event)
	assert.Nil(t, updated.ResolvedAt)
}

func TestUpdateFieldsWithoutStatusChange(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	resolution, err := fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.NoError(t, err)

	rootCause := "expired TLS cert on payment gateway"
	updated, err := fx.service.UpdateStatus(ctx, resolution.ID, ResolutionUpdateInput{
		RootCause:       &rootCause,
		AffectedSystems: []string{"payments", "checkout"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.RootCause)
	assert.Equal(t, rootCause, *updated.RootCause)
	assert.Equal(t, []string{"payments", "checkout"}, updated.AffectedSystems)
	// no status change, no timeline entry
	assert.Len(t, updated.Timeline, 1)
}

func TestStatusPatchThenResolveGrowsTimelineByTwo(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	resolution, err := fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.NoError(t, err)
	creationLen := len(resolution.Timeline)

	status := domain.ResolutionAwaitingDeploy
	_, err = fx.service.UpdateStatus(ctx, resolution.ID, ResolutionUpdateInput{Status: &status})
	require.NoError(t, err)

	resolved, err := fx.service.Resolve(ctx, resolution.ID, "deployed fix")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Len(t, resolved.Timeline, creationLen+2)
}

func TestUpdateStatusToResolvedSetsResolvedAt(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	resolution, err := fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.NoError(t, err)

	status := domain.ResolutionResolved
	updated, err := fx.service.UpdateStatus(ctx, resolution.ID, ResolutionUpdateInput{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	require.Len(t, updated.Timeline, 2)
	assert.Contains(t, updated.Timeline[1].Event, "resolved")
}

func TestResolveIsIdempotentInItsSideEffects(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()
	conversation := fx.newConversation(t)

	resolution, err := fx.service.Create(ctx, ResolutionCreateInput{ConversationID: conversation.ID})
	require.NoError(t, err)

	first, err := fx.service.Resolve(ctx, resolution.ID, "fixed")
	require.NoError(t, err)
	require.NotNil(t, first.ResolvedAt)
	firstLen := len(first.Timeline)

	// A second resolve re-sets resolvedAt and appends another terminal
	// entry; the status stays resolved.
	second, err := fx.service.Resolve(ctx, resolution.ID, "fixed again")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, second.Status)
	require.NotNil(t, second.ResolvedAt)
	assert.Len(t, second.Timeline, firstLen+1)
	assert.False(t, second.ResolvedAt.Before(*first.ResolvedAt))
}

func TestResolutionNotFound(t *testing.T) {
	fx := newResolutionFixture()
	ctx := context.Background()

	_, err := fx.service.Get(ctx, "does-not-exist")
	assert.True(t, apperrors.IsNotFound(err))

	status := domain.ResolutionMonitoring
	_, err = fx.service.UpdateStatus(ctx, "does-not-exist", ResolutionUpdateInput{Status: &status})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = fx.service.Resolve(ctx, "does-not-exist", "")
	assert.True(t, apperrors.IsNotFound(err))
}
