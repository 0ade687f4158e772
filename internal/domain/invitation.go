package domain

import "time"

// InvitationTTL is how long an invitation can be redeemed after creation.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationStatus string

const (
	InvitationPending InvitationStatus = "pending"
	InvitationExpired InvitationStatus = "expired"
)

// Invitation is a time-bounded, email-addressed offer of project membership.
// It has no identity of its own; (project, email) is unique while pending and
// the token is unique globally. Expiry is derived at read time and never
// stored: an expired invitation stays on the project until revoked.
type Invitation struct {
	ProjectID string
	Email     string // normalized lowercase
	Token     string
	CreatedAt time.Time
}

// ExpiredAt reports whether the invitation can no longer be redeemed at now.
func (i Invitation) ExpiredAt(now time.Time) bool {
	return now.Sub(i.CreatedAt) >= InvitationTTL
}

// StatusAt derives the read-time status of the invitation.
func (i Invitation) StatusAt(now time.Time) InvitationStatus {
	if i.ExpiredAt(now) {
		return InvitationExpired
	}
	return InvitationPending
}
