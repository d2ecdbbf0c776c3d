package domain

import "time"

// ResolutionStatus enumerates workflow states for resolutions. Transitions
// are free-form except that "resolved" is terminal bookkeeping (sets
// ResolvedAt and appends a terminal timeline entry).
type ResolutionStatus string

const (
	ResolutionInvestigating  ResolutionStatus = "investigating"
	ResolutionFixInProgress  ResolutionStatus = "fix_in_progress"
	ResolutionAwaitingDeploy ResolutionStatus = "awaiting_deploy"
	ResolutionMonitoring     ResolutionStatus = "monitoring"
	ResolutionResolved       ResolutionStatus = "resolved"
)

// TimelineEntry records a single workflow event on a resolution.
type TimelineEntry struct {
	Timestamp time.Time
	Event     string
}

// Resolution is the long-running issue record spawned from an escalated
// conversation. Owned by exactly one conversation.
type Resolution struct {
	ID                 string
	ConversationID     string
	CustomerID         string
	Title              string
	Description        string
	IssueType          string
	Priority           Severity
	Status             ResolutionStatus
	AssignedTeamID     *string
	AssignedEngineerID *string
	RootCause          *string
	AffectedSystems    []string
	Timeline           []TimelineEntry
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ResolvedAt         *time.Time
}

// AppendTimeline adds an event to the append-only timeline.
func (r *Resolution) AppendTimeline(at time.Time, event string) {
	r.Timeline = append(r.Timeline, TimelineEntry{Timestamp: at, Event: event})
}
