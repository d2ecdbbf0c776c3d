package dto

import (
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// CreateConversationRequest payload. Every field is optional; malformed
// bodies degrade to the zero value of this struct.
type CreateConversationRequest struct {
	CustomerID     string           `json:"customerId"`
	CustomerName   string           `json:"customerName"`
	CustomerEmail  string           `json:"customerEmail"`
	Channel        string           `json:"channel"`
	Subject        string           `json:"subject"`
	InitialMessage string           `json:"initialMessage"`
	Severity       domain.Severity  `json:"severity"`
	Sentiment      domain.Sentiment `json:"sentiment"`
	Intent         string           `json:"intent"`
	Tags           []string         `json:"tags"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Channel     string                  `json:"channel"`
	Direction   domain.MessageDirection `json:"direction"`
	SenderType  domain.SenderType       `json:"senderType"`
	SenderID    *string                 `json:"senderId"`
	Content     string                  `json:"content"`
	ContentType string                  `json:"contentType"`
}

// AssignRequest payload.
type AssignRequest struct {
	AgentID string  `json:"agentId"`
	TeamID  *string `json:"teamId"`
}

// EscalateRequest payload.
type EscalateRequest struct {
	Reason           string          `json:"reason"`
	CreateResolution bool            `json:"createResolution"`
	Priority         domain.Severity `json:"priority"`
}

// ResolveConversationRequest payload.
type ResolveConversationRequest struct {
	ResolutionNotes string `json:"resolutionNotes"`
}

// SLAResponse mirrors the conversation SLA block.
type SLAResponse struct {
	FirstResponseDueAt time.Time `json:"firstResponseDueAt"`
	ResolutionDueAt    time.Time `json:"resolutionDueAt"`
	Breached           bool      `json:"breached"`
}

// ConversationResponse is the full conversation shape.
type ConversationResponse struct {
	ID              string                   `json:"id"`
	CustomerID      string                   `json:"customerId"`
	State           domain.ConversationState `json:"state"`
	Severity        domain.Severity          `json:"severity"`
	Sentiment       domain.Sentiment         `json:"sentiment"`
	Intent          string                   `json:"intent"`
	CurrentChannel  string                   `json:"currentChannel"`
	ChannelsUsed    []string                 `json:"channelsUsed"`
	AssignedAgentID *string                  `json:"assignedAgentId"`
	AssignedTeamID  *string                  `json:"assignedTeamId"`
	Subject         string                   `json:"subject"`
	Tags            []string                 `json:"tags"`
	SLA             SLAResponse              `json:"sla"`
	ResolutionID    *string                  `json:"resolutionId"`
	MessageCount    int                      `json:"messageCount"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
	LastMessageAt   *time.Time               `json:"lastMessageAt"`
	ResolvedAt      *time.Time               `json:"resolvedAt"`
}

// ConversationDetailResponse bundles a conversation with its messages.
type ConversationDetailResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

// MessageResponse is the message shape.
type MessageResponse struct {
	ID             string                  `json:"id"`
	ConversationID string                  `json:"conversationId"`
	Channel        string                  `json:"channel"`
	Direction      domain.MessageDirection `json:"direction"`
	SenderType     domain.SenderType       `json:"senderType"`
	SenderID       *string                 `json:"senderId"`
	Content        string                  `json:"content"`
	ContentType    string                  `json:"contentType"`
	Status         string                  `json:"status"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// EscalateResponse pairs the updated conversation with the spawned
// resolution id, when one was created.
type EscalateResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	ResolutionID *string              `json:"resolutionId"`
}
