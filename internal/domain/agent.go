package domain

import "time"

// AgentRole enumerates agent permission levels.
type AgentRole string

const (
	RoleAgent AgentRole = "agent"
	RoleAdmin AgentRole = "admin"
)

// Agent is a support agent who can log in, be assigned conversations, and
// post outbound messages.
type Agent struct {
	ID           string
	Name         string
	Email        string
	Role         AgentRole
	PasswordHash string
	TeamID       *string
	CreatedAt    time.Time
}
