package domain

import (
	"fmt"
	"time"
)

// Role is a member's standing on a project. Roles are matched exactly; owner
// does not implicitly satisfy a participant check.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleParticipant
}

func (r Role) String() string { return string(r) }

// ParseRole rejects anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("domain: unknown role %q", s)
	}
	return r, nil
}

type Membership struct {
	ID        string
	ProjectID string
	UserID    string
	Role      Role
	GrantedAt time.Time
}

// Member is a membership joined with the user it belongs to.
type Member struct {
	Membership
	Login string
	Email string
}
