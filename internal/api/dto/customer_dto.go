package dto

import (
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Company string              `json:"company"`
	Tier    domain.CustomerTier `json:"tier"`
}

// CustomerResponse is the customer shape.
type CustomerResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Company   string              `json:"company"`
	Tier      domain.CustomerTier `json:"tier"`
	CreatedAt time.Time           `json:"createdAt"`
}
