package events

import (
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventConversationCreated     EventType = "conversation_created"
	EventConversationAssigned    EventType = "conversation_assigned"
	EventConversationEscalated   EventType = "conversation_escalated"
	EventConversationResolved    EventType = "conversation_resolved"
	EventMessageAdded            EventType = "message_added"
	EventResolutionCreated       EventType = "resolution_created"
	EventResolutionStatusChanged EventType = "resolution_status_changed"
	EventResolutionResolved      EventType = "resolution_resolved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	ResolutionID   string      `json:"resolution_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// ConversationCreatedPayload payload.
type ConversationCreatedPayload struct {
	CustomerID string          `json:"customer_id"`
	Channel    string          `json:"channel"`
	Severity   domain.Severity `json:"severity"`
	Subject    string          `json:"subject,omitempty"`
}

// ConversationAssignedPayload payload.
type ConversationAssignedPayload struct {
	AgentID string  `json:"agent_id"`
	TeamID  *string `json:"team_id,omitempty"`
}

// ConversationEscalatedPayload payload.
type ConversationEscalatedPayload struct {
	Reason       string  `json:"reason,omitempty"`
	ResolutionID *string `json:"resolution_id,omitempty"`
}

// ConversationResolvedPayload payload.
type ConversationResolvedPayload struct {
	Notes string `json:"notes,omitempty"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID  string                   `json:"message_id"`
	Direction  domain.MessageDirection  `json:"direction"`
	SenderType domain.SenderType        `json:"sender_type"`
	Channel    string                   `json:"channel"`
	NewState   domain.ConversationState `json:"new_state"`
}

// ResolutionStatusChangedPayload payload.
type ResolutionStatusChangedPayload struct {
	OldStatus domain.ResolutionStatus `json:"old_status"`
	NewStatus domain.ResolutionStatus `json:"new_status"`
}
