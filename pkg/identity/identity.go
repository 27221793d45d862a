package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role is the platform-level role carried by a session token.
type Role string

const (
	// RoleOperator marks a platform operator ("landlord") managing the
	// platform across tenants. Operator identities must never reach
	// tenant-scoped surfaces.
	RoleOperator Role = "operator"
	// RoleMember marks a tenant's own staff.
	RoleMember Role = "member"
)

// Identity is the authenticated caller as seen by the routing layer.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// IsOperator reports whether the identity carries platform-operator
// privileges.
func (i *Identity) IsOperator() bool {
	return i != nil && i.Role == RoleOperator
}
