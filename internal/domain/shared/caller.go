package shared

import "github.com/google/uuid"

// Role represents the role of an authenticated member
type Role string

const (
	RolePartner  Role = "PARTNER"
	RoleInvestor Role = "INVESTOR"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RolePartner, RoleInvestor, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanDecide reports whether the role may confirm or reject investments
func (r Role) CanDecide() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanManageProjects reports whether the role may create, publish or close projects
func (r Role) CanManageProjects() bool {
	return r == RoleManager || r == RoleAdmin
}

// Caller identifies the authenticated member performing an operation.
// Identity always arrives as an explicit parameter; the domain never reads
// it from ambient state.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// NewCaller creates a caller with the given identity and role
func NewCaller(id uuid.UUID, role Role) Caller {
	return Caller{ID: id, Role: role}
}
