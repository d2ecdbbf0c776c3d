package domain

import "time"

// CustomerTier enumerates support plan levels.
type CustomerTier string

const (
	TierStandard   CustomerTier = "standard"
	TierEnterprise CustomerTier = "enterprise"
)

// Customer is the identity record owning conversations. Immutable after
// creation.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Company   string
	Tier      CustomerTier
	CreatedAt time.Time
}
