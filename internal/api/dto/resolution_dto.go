package dto

import (
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// CreateResolutionRequest payload for direct creation.
type CreateResolutionRequest struct {
	ConversationID string          `json:"conversationId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	IssueType      string          `json:"issueType"`
	Priority       domain.Severity `json:"priority"`
}

// UpdateResolutionStatusRequest payload. Fields other than status may be
// patched without a status change.
type UpdateResolutionStatusRequest struct {
	Status             *domain.ResolutionStatus `json:"status"`
	RootCause          *string                  `json:"rootCause"`
	AffectedSystems    []string                 `json:"affectedSystems"`
	AssignedTeamID     *string                  `json:"assignedTeamId"`
	AssignedEngineerID *string                  `json:"assignedEngineerId"`
}

// ResolveResolutionRequest payload.
type ResolveResolutionRequest struct {
	ResolutionNotes string `json:"resolutionNotes"`
}

// TimelineEntryResponse is a single workflow event.
type TimelineEntryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
}

// ResolutionResponse is the resolution shape.
type ResolutionResponse struct {
	ID                 string                  `json:"id"`
	ConversationID     string                  `json:"conversationId"`
	CustomerID         string                  `json:"customerId"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	IssueType          string                  `json:"issueType"`
	Priority           domain.Severity         `json:"priority"`
	Status             domain.ResolutionStatus `json:"status"`
	AssignedTeamID     *string                 `json:"assignedTeamId"`
	AssignedEngineerID *string                 `json:"assignedEngineerId"`
	RootCause          *string                 `json:"rootCause"`
	AffectedSystems    []string                `json:"affectedSystems"`
	Timeline           []TimelineEntryResponse `json:"timeline"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
	ResolvedAt         *time.Time              `json:"resolvedAt"`
}
