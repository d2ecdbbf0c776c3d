package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/events"
	"github.com/spec-kit/conversation-service/internal/repository"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

const defaultChannel = "web_chat"

// ConversationService coordinates the conversation lifecycle: creation,
// message posting with state transitions, assignment, escalation, and
// resolution.
type ConversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	customers     repository.CustomerRepository
	resolutions   repository.ResolutionRepository
	dispatcher    events.Dispatcher
}

// ConversationDependencies bundles repositories for the service.
type ConversationDependencies struct {
	ConversationRepo repository.ConversationRepository
	MessageRepo      repository.MessageRepository
	CustomerRepo     repository.CustomerRepository
	ResolutionRepo   repository.ResolutionRepository
	Dispatcher       events.Dispatcher
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	return &ConversationService{
		conversations: deps.ConversationRepo,
		messages:      deps.MessageRepo,
		customers:     deps.CustomerRepo,
		resolutions:   deps.ResolutionRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// ConversationCreateInput describes conversation creation payload. All
// fields are optional; missing customer identity creates an anonymous
// customer record. Severity, sentiment, and intent are annotations supplied
// by an external classifier; the core stores whatever it is handed.
type ConversationCreateInput struct {
	CustomerID     string
	CustomerName   string
	CustomerEmail  string
	Channel        string
	Subject        string
	InitialMessage string
	Severity       domain.Severity
	Sentiment      domain.Sentiment
	Intent         string
	Tags           []string
}

// MessageInput describes a posted message.
type MessageInput struct {
	Channel     string
	Direction   domain.MessageDirection
	SenderType  domain.SenderType
	SenderID    *string
	Content     string
	ContentType string
}

// EscalateInput describes an escalation request.
type EscalateInput struct {
	Reason           string
	CreateResolution bool
	Priority         domain.Severity
}

// ListFilter describes conversation list parameters.
type ListFilter struct {
	States     []domain.ConversationState
	Severities []domain.Severity
	Page       repository.Page
}

// Create opens a new conversation in state open, fixing SLA due timestamps
// from the severity offsets and appending the optional initial message.
func (s *ConversationService) Create(ctx context.Context, input ConversationCreateInput) (*domain.Conversation, error) {
	customer, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	channel := input.Channel
	if channel == "" {
		channel = defaultChannel
	}
	severity := input.Severity
	if severity == "" {
		severity = domain.SeverityP2
	}
	sentiment := input.Sentiment
	if sentiment == "" {
		sentiment = domain.SentimentNeutral
	}

	conversation := &domain.Conversation{
		ID:             newID("conv"),
		CustomerID:     customer.ID,
		State:          domain.StateOpen,
		Severity:       severity,
		Sentiment:      sentiment,
		Intent:         input.Intent,
		CurrentChannel: channel,
		ChannelsUsed:   []string{channel},
		Subject:        input.Subject,
		Tags:           input.Tags,
		SLA: domain.SLA{
			FirstResponseDueAt: now.Add(domain.FirstResponseOffset(severity)),
			ResolutionDueAt:    now.Add(domain.ResolutionOffset(severity)),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.InitialMessage != "" {
		message := &domain.Message{
			ID:             newID("msg"),
			ConversationID: conversation.ID,
			Channel:        channel,
			Direction:      domain.DirectionInbound,
			SenderType:     domain.SenderCustomer,
			Content:        input.InitialMessage,
			ContentType:    "text",
			Status:         "received",
			CreatedAt:      now,
		}
		if err := s.messages.Create(ctx, message); err != nil {
			return nil, err
		}
		conversation.MessageCount = 1
		conversation.LastMessageAt = &now
	}

	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventConversationCreated,
		ConversationID: conversation.ID,
		Payload: events.ConversationCreatedPayload{
			CustomerID: customer.ID,
			Channel:    channel,
			Severity:   severity,
			Subject:    input.Subject,
		},
	})
	return conversation, nil
}

// List returns conversations matching the filter, ordered by severity
// ascending (P0 first, unknown values last), with the total match count.
func (s *ConversationService) List(ctx context.Context, filter ListFilter) ([]domain.Conversation, int, error) {
	return s.conversations.ListWithFilter(ctx, repository.ConversationFilter{
		States:     filter.States,
		Severities: filter.Severities,
		Page:       filter.Page,
	})
}

// Get fetches a conversation with its full message sequence.
func (s *ConversationService) Get(ctx context.Context, id string) (*domain.Conversation, []domain.Message, error) {
	conversation, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messages.ListByConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return conversation, messages, nil
}

// PostMessage appends a message to the conversation and applies the state
// transition rules: an agent outbound message moves the conversation to
// awaiting_customer, a customer inbound message to awaiting_agent. Any other
// direction/sender combination leaves the state untouched. Bookkeeping
// (message count, timestamps, channel set) applies in every case.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID string, input MessageInput) (*domain.Message, *domain.Conversation, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	channel := input.Channel
	if channel == "" {
		channel = conversation.CurrentChannel
	}
	direction := input.Direction
	if direction == "" {
		direction = domain.DirectionInbound
	}
	senderType := input.SenderType
	if senderType == "" {
		senderType = domain.SenderCustomer
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "text"
	}

	message := &domain.Message{
		ID:             newID("msg"),
		ConversationID: conversation.ID,
		Channel:        channel,
		Direction:      direction,
		SenderType:     senderType,
		SenderID:       input.SenderID,
		Content:        input.Content,
		ContentType:    contentType,
		Status:         "received",
		CreatedAt:      now,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, nil, err
	}

	if conversation.State != domain.StateResolved {
		switch {
		case direction == domain.DirectionOutbound && senderType == domain.SenderAgent:
			conversation.State = domain.StateAwaitingCustomer
		case direction == domain.DirectionInbound && senderType == domain.SenderCustomer:
			conversation.State = domain.StateAwaitingAgent
		}
	}
	conversation.MessageCount++
	conversation.LastMessageAt = &now
	conversation.UpdatedAt = now
	conversation.CurrentChannel = channel
	conversation.TouchChannel(channel)

	if err := s.conversations.Update(ctx, conversation); err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventMessageAdded,
		ConversationID: conversation.ID,
		Payload: events.MessageAddedPayload{
			MessageID:  message.ID,
			Direction:  direction,
			SenderType: senderType,
			Channel:    channel,
			NewState:   conversation.State,
		},
	})
	return message, conversation, nil
}

// Assign sets the handling agent and moves the conversation to
// awaiting_agent.
func (s *ConversationService) Assign(ctx context.Context, conversationID, agentID string, teamID *string) (*domain.Conversation, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	conversation.AssignedAgentID = &agentID
	if teamID != nil {
		conversation.AssignedTeamID = teamID
	}
	conversation.State = domain.StateAwaitingAgent
	conversation.UpdatedAt = time.Now()

	if err := s.conversations.Update(ctx, conversation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventConversationAssigned,
		ConversationID: conversation.ID,
		Payload: events.ConversationAssignedPayload{
			AgentID: agentID,
			TeamID:  teamID,
		},
	})
	return conversation, nil
}

// Escalate marks the conversation escalated, records the reason as an
// internal system message, and optionally spawns a Resolution owned by the
// conversation.
func (s *ConversationService) Escalate(ctx context.Context, conversationID string, input EscalateInput) (*domain.Conversation, *domain.Resolution, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if conversation.State == domain.StateResolved {
		return nil, nil, apperrors.NewValidationError("conversation already resolved", map[string]any{"id": conversationID})
	}

	now := time.Now()
	conversation.State = domain.StateEscalated

	var resolution *domain.Resolution
	if input.CreateResolution {
		if conversation.ResolutionID != nil {
			return nil, nil, apperrors.NewValidationError("conversation already has a resolution", map[string]any{"resolutionId": *conversation.ResolutionID})
		}
		priority := input.Priority
		if priority == "" {
			priority = conversation.Severity
		}
		resolution = buildResolution(conversation, input.Reason, priority, now)
		if err := s.resolutions.Create(ctx, resolution); err != nil {
			return nil, nil, err
		}
		conversation.ResolutionID = &resolution.ID
	}

	content := "Conversation escalated"
	if input.Reason != "" {
		content = "Conversation escalated: " + input.Reason
	}
	if err := s.appendSystemMessage(ctx, conversation, content, now); err != nil {
		return nil, nil, err
	}
	conversation.UpdatedAt = now

	if err := s.conversations.Update(ctx, conversation); err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventConversationEscalated,
		ConversationID: conversation.ID,
		Payload: events.ConversationEscalatedPayload{
			Reason:       input.Reason,
			ResolutionID: conversation.ResolutionID,
		},
	})
	if resolution != nil {
		s.publishEvent(ctx, events.Event{
			Type:           events.EventResolutionCreated,
			ConversationID: conversation.ID,
			ResolutionID:   resolution.ID,
		})
	}
	return conversation, resolution, nil
}

// Resolve moves the conversation to its terminal resolved state and records
// the notes as an internal system message. Calling it on an already
// resolved conversation repeats the side effects (resolvedAt re-set, one
// more system message); resolved stays terminal either way.
func (s *ConversationService) Resolve(ctx context.Context, conversationID, notes string) (*domain.Conversation, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	content := "Conversation resolved"
	if notes != "" {
		content = "Conversation resolved: " + notes
	}
	if err := s.appendSystemMessage(ctx, conversation, content, now); err != nil {
		return nil, err
	}

	conversation.State = domain.StateResolved
	conversation.ResolvedAt = &now
	conversation.UpdatedAt = now

	if err := s.conversations.Update(ctx, conversation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventConversationResolved,
		ConversationID: conversation.ID,
		Payload:        events.ConversationResolvedPayload{Notes: notes},
	})
	return conversation, nil
}

func (s *ConversationService) getConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	conversation, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("conversation", id)
		}
		return nil, err
	}
	return conversation, nil
}

// appendSystemMessage stores an internal system message and applies the
// shared message bookkeeping. The message count must never desynchronize
// from the stored sequence length, so the count is bumped in the same call.
func (s *ConversationService) appendSystemMessage(ctx context.Context, conversation *domain.Conversation, content string, now time.Time) error {
	message := &domain.Message{
		ID:             newID("msg"),
		ConversationID: conversation.ID,
		Channel:        conversation.CurrentChannel,
		Direction:      domain.DirectionInternal,
		SenderType:     domain.SenderSystem,
		Content:        content,
		ContentType:    "text",
		Status:         "received",
		CreatedAt:      now,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return err
	}
	conversation.MessageCount++
	conversation.LastMessageAt = &now
	return nil
}

func (s *ConversationService) resolveCustomer(ctx context.Context, input ConversationCreateInput) (*domain.Customer, error) {
	if input.CustomerID != "" {
		customer, err := s.customers.GetByID(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFound("customer", input.CustomerID)
			}
			return nil, err
		}
		return customer, nil
	}

	if input.CustomerEmail != "" {
		customer, err := s.customers.GetByEmail(ctx, input.CustomerEmail)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		name = "Anonymous"
	}
	customer := &domain.Customer{
		ID:        newID("cust"),
		Name:      name,
		Email:     input.CustomerEmail,
		Tier:      domain.TierStandard,
		CreatedAt: time.Now(),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *ConversationService) publishEvent(ctx context.Context, event events.Event) {
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
