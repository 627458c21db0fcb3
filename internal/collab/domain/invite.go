package domain

import "time"

// InviteState is derived, never stored.
type InviteState string

const (
	InvitePending InviteState = "pending"
	InviteExpired InviteState = "expired"
	InviteUsed    InviteState = "used"
)

// InviteToken is a single-use, email-bound grant of participant access.
type InviteToken struct {
	ID        string
	Token     string
	ProjectID string
	Email     string
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
	UsedBy    string
}

// State reports the token's lifecycle state at now. Used wins over expired.
func (t InviteToken) State(now time.Time) InviteState {
	switch {
	case t.UsedAt != nil:
		return InviteUsed
	case !now.Before(t.ExpiresAt):
		return InviteExpired
	default:
		return InvitePending
	}
}

// PendingInvite is an unredeemed, unexpired invitation addressed to the
// caller, with enough context to render it.
type PendingInvite struct {
	Token       string
	ProjectID   string
	ProjectName string
	InvitedBy   string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}
