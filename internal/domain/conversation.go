package domain

import "time"

// ConversationState enumerates lifecycle states for conversations.
type ConversationState string

const (
	StateOpen             ConversationState = "open"
	StateAwaitingCustomer ConversationState = "awaiting_customer"
	StateAwaitingAgent    ConversationState = "awaiting_agent"
	StateEscalated        ConversationState = "escalated"
	StateResolved         ConversationState = "resolved"
)

// Severity enumerates priority tiers, P0 highest.
type Severity string

const (
	SeverityP0 Severity = "P0"
	SeverityP1 Severity = "P1"
	SeverityP2 Severity = "P2"
	SeverityP3 Severity = "P3"
)

// Rank returns the sort position for a severity; unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityP0:
		return 0
	case SeverityP1:
		return 1
	case SeverityP2:
		return 2
	case SeverityP3:
		return 3
	default:
		return 4
	}
}

// Sentiment is an annotation supplied by an external classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentAngry    Sentiment = "angry"
)

// SLA holds due timestamps fixed at creation time. Breached is a static
// flag; a real-time monitor would be a separate collaborator.
type SLA struct {
	FirstResponseDueAt time.Time
	ResolutionDueAt    time.Time
	Breached           bool
}

// Conversation is the central aggregate: a customer interaction tracked
// across channels, owning a state and a message sequence.
type Conversation struct {
	ID              string
	CustomerID      string
	State           ConversationState
	Severity        Severity
	Sentiment       Sentiment
	Intent          string
	CurrentChannel  string
	ChannelsUsed    []string
	AssignedAgentID *string
	AssignedTeamID  *string
	Subject         string
	Tags            []string
	SLA             SLA
	ResolutionID    *string
	MessageCount    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastMessageAt   *time.Time
	ResolvedAt      *time.Time
}

// TouchChannel records a channel in the append-only used set.
func (c *Conversation) TouchChannel(channel string) {
	if channel == "" {
		return
	}
	for _, used := range c.ChannelsUsed {
		if used == channel {
			return
		}
	}
	c.ChannelsUsed = append(c.ChannelsUsed, channel)
}

// FirstResponseOffset returns the SLA first-response offset for a severity.
func FirstResponseOffset(severity Severity) time.Duration {
	switch severity {
	case SeverityP0:
		return 15 * time.Minute
	case SeverityP1:
		return time.Hour
	case SeverityP2:
		return 4 * time.Hour
	default:
		return 8 * time.Hour
	}
}

// ResolutionOffset returns the SLA resolution offset for a severity.
func ResolutionOffset(severity Severity) time.Duration {
	switch severity {
	case SeverityP0:
		return 4 * time.Hour
	case SeverityP1:
		return 24 * time.Hour
	case SeverityP2:
		return 72 * time.Hour
	default:
		return 168 * time.Hour
	}
}
