package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant. The set is open: any value
// other than StatusActive means the storefront is not servable.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Tenant is the minimal snapshot of a merchant needed for request routing
// and row-level isolation downstream. It is read-only from the routing
// core's perspective; mutations happen through admin tooling.
type Tenant struct {
	ID           uuid.UUID  `json:"id"`
	Subdomain    string     `json:"subdomain"`
	CustomDomain string     `json:"custom_domain,omitempty"`
	Name         string     `json:"name"`
	Status       Status     `json:"status"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsActive reports whether the tenant is in a servable lifecycle state.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == StatusActive
}

// IsExpired reports whether the tenant's expiry instant has passed.
// A nil ExpiresAt means the tenant never expires.
func (t *Tenant) IsExpired(now time.Time) bool {
	return t != nil && t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// Store is the read contract against the durable tenant record source.
type Store interface {
	// ByHostname retrieves the tenant claiming either the given subdomain
	// or the full hostname as a custom domain. Returns ErrTenantNotFound
	// when no tenant matches and ErrAmbiguousTenant when more than one
	// active tenant claims the hostname (a configuration error).
	ByHostname(ctx context.Context, hostname, subdomain string) (*Tenant, error)
}
