package domain

import "time"

// MessageDirection indicates which way a message travelled.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
	DirectionInternal MessageDirection = "internal"
)

// SenderType indicates who authored a message.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
	SenderSystem   SenderType = "system"
)

// Message is immutable once created. Per-conversation ordering is append
// only; insertion order is chronological order.
type Message struct {
	ID             string
	ConversationID string
	Channel        string
	Direction      MessageDirection
	SenderType     SenderType
	SenderID       *string
	Content        string
	ContentType    string
	Status         string
	CreatedAt      time.Time
}
