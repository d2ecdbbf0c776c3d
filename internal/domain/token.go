package domain

import "time"

// Token maps an opaque bearer string to an agent identity. Issued on login.
// The expiry is advisory: it is returned to the caller but the core does not
// enforce it beyond the backing store's own eviction.
type Token struct {
	Value     string
	AgentID   string
	Email     string
	Role      AgentRole
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
