package shared

import "github.com/google/uuid"

// Role represents the business role of the acting identity.
// Authentication and permission checks happen upstream; the engine only
// consults the role for guardrail waivers.
type Role string

const (
	RoleCashier Role = "CASHIER"
	RoleClerk   Role = "CLERK"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleCashier, RoleClerk, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanOverridePrice returns true if the role may authorize a line price that
// deviates from catalog beyond the deviation threshold
func (r Role) CanOverridePrice() bool {
	return r == RoleManager || r == RoleAdmin
}

// Actor is the identity performing a guarded mutation. It is assumed to have
// already passed authentication and permission checks.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// NewActor creates an Actor
func NewActor(userID uuid.UUID, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// IsValid checks that the actor carries an identity and a known role
func (a Actor) IsValid() bool {
	return a.UserID != uuid.Nil && a.Role.IsValid()
}
