package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/events"
	"github.com/spec-kit/conversation-service/internal/repository"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

// ResolutionService coordinates the long-running resolution workflow.
type ResolutionService struct {
	resolutions   repository.ResolutionRepository
	conversations repository.ConversationRepository
	dispatcher    events.Dispatcher
}

// ResolutionDependencies bundles repositories for the service.
type ResolutionDependencies struct {
	ResolutionRepo   repository.ResolutionRepository
	ConversationRepo repository.ConversationRepository
	Dispatcher       events.Dispatcher
}

// NewResolutionService constructs the service.
func NewResolutionService(deps ResolutionDependencies) *ResolutionService {
	return &ResolutionService{
		resolutions:   deps.ResolutionRepo,
		conversations: deps.ConversationRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// ResolutionCreateInput describes the direct creation payload. It mirrors
// the defaults applied when an escalation spawns a resolution.
type ResolutionCreateInput struct {
	ConversationID string
	Title          string
	Description    string
	IssueType      string
	Priority       domain.Severity
}

// ResolutionUpdateInput describes a status/fields patch. A nil Status
// updates root cause and assignment fields without a status change.
type ResolutionUpdateInput struct {
	Status             *domain.ResolutionStatus
	RootCause          *string
	AffectedSystems    []string
	AssignedTeamID     *string
	AssignedEngineerID *string
}

// buildResolution applies the shared creation defaults: status
// investigating, the creation event as the first timeline entry, priority
// mirroring the conversation severity unless overridden.
func buildResolution(conversation *domain.Conversation, description string, priority domain.Severity, now time.Time) *domain.Resolution {
	title := conversation.Subject
	if title == "" {
		title = "Escalated conversation " + conversation.ID
	}
	resolution := &domain.Resolution{
		ID:             newID("res"),
		ConversationID: conversation.ID,
		CustomerID:     conversation.CustomerID,
		Title:          title,
		Description:    description,
		Priority:       priority,
		Status:         domain.ResolutionInvestigating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	resolution.AppendTimeline(now, "created")
	return resolution
}

// Create opens a resolution for an existing conversation and links the
// back-reference. A conversation owns at most one resolution.
func (s *ResolutionService) Create(ctx context.Context, input ResolutionCreateInput) (*domain.Resolution, error) {
	conversation, err := s.conversations.GetByID(ctx, input.ConversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("conversation", input.ConversationID)
		}
		return nil, err
	}
	if conversation.ResolutionID != nil {
		return nil, apperrors.NewValidationError("conversation already has a resolution", map[string]any{"resolutionId": *conversation.ResolutionID})
	}

	now := time.Now()
	priority := input.Priority
	if priority == "" {
		priority = conversation.Severity
	}
	resolution := buildResolution(conversation, input.Description, priority, now)
	if input.Title != "" {
		resolution.Title = input.Title
	}
	resolution.IssueType = input.IssueType

	if err := s.resolutions.Create(ctx, resolution); err != nil {
		return nil, err
	}

	conversation.ResolutionID = &resolution.ID
	conversation.UpdatedAt = now
	if err := s.conversations.Update(ctx, conversation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventResolutionCreated,
		ConversationID: conversation.ID,
		ResolutionID:   resolution.ID,
	})
	return resolution, nil
}

// Get fetches a resolution by id.
func (s *ResolutionService) Get(ctx context.Context, id string) (*domain.Resolution, error) {
	return s.getResolution(ctx, id)
}

// List returns a page of resolutions with the total count.
func (s *ResolutionService) List(ctx context.Context, page repository.Page) ([]domain.Resolution, int, error) {
	return s.resolutions.List(ctx, page)
}

// UpdateStatus patches workflow fields. A status change appends a
// "previous -> new" timeline entry; changing to resolved also sets
// resolvedAt. Root cause, affected systems, and assignments may change
// without a status change and append nothing.
func (s *ResolutionService) UpdateStatus(ctx context.Context, id string, input ResolutionUpdateInput) (*domain.Resolution, error) {
	resolution, err := s.getResolution(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if input.Status != nil && *input.Status != resolution.Status {
		previous := resolution.Status
		resolution.Status = *input.Status
		resolution.AppendTimeline(now, fmt.Sprintf("%s -> %s", previous, resolution.Status))
		if resolution.Status == domain.ResolutionResolved {
			resolution.ResolvedAt = &now
		}
		s.publishEvent(ctx, events.Event{
			Type:           events.EventResolutionStatusChanged,
			ConversationID: resolution.ConversationID,
			ResolutionID:   resolution.ID,
			Payload: events.ResolutionStatusChangedPayload{
				OldStatus: previous,
				NewStatus: resolution.Status,
			},
		})
	}
	if input.RootCause != nil {
		resolution.RootCause = input.RootCause
	}
	if input.AffectedSystems != nil {
		resolution.AffectedSystems = input.AffectedSystems
	}
	if input.AssignedTeamID != nil {
		resolution.AssignedTeamID = input.AssignedTeamID
	}
	if input.AssignedEngineerID != nil {
		resolution.AssignedEngineerID = input.AssignedEngineerID
	}
	resolution.UpdatedAt = now

	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}
	return resolution, nil
}

// Resolve is the canonical terminal operation. It is idempotent in its side
// effects: a repeated call re-sets resolvedAt/updatedAt and appends another
// terminal timeline entry.
func (s *ResolutionService) Resolve(ctx context.Context, id, notes string) (*domain.Resolution, error) {
	resolution, err := s.getResolution(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resolution.Status = domain.ResolutionResolved
	resolution.ResolvedAt = &now
	resolution.UpdatedAt = now
	entry := "resolved"
	if notes != "" {
		entry = "resolved: " + notes
	}
	resolution.AppendTimeline(now, entry)

	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventResolutionResolved,
		ConversationID: resolution.ConversationID,
		ResolutionID:   resolution.ID,
	})
	return resolution, nil
}

func (s *ResolutionService) getResolution(ctx context.Context, id string) (*domain.Resolution, error) {
	resolution, err := s.resolutions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("resolution", id)
		}
		return nil, err
	}
	return resolution, nil
}

func (s *ResolutionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
