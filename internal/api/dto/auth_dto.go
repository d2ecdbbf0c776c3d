package dto

import (
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AgentResponse is the public agent shape.
type AgentResponse struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Role  domain.AgentRole `json:"role"`
}

// LoginResponse pairs the issued token with its owner.
type LoginResponse struct {
	Token     string        `json:"token"`
	User      AgentResponse `json:"user"`
	ExpiresAt time.Time     `json:"expiresAt"`
}
