package domain

import (
	"slices"
	"time"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
)

// Project is the unit of tenancy. The owner is always a member but is never
// duplicated into MemberIDs.
type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	MemberIDs   []string
	Status      ProjectStatus
	Invitations []Invitation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember reports actual membership: the owner or a stored member. Unlike
// IsMember it carries no admin override, so it is the predicate used when
// validating assignee and watcher references.
func (p Project) HasMember(userID string) bool {
	return userID == p.OwnerID || slices.Contains(p.MemberIDs, userID)
}

// IsOwnerOrAdmin reports whether u may manage the project (membership,
// invitations, project status).
func IsOwnerOrAdmin(u User, p Project) bool {
	return u.IsAdmin || u.ID == p.OwnerID
}

// IsMember reports whether u belongs to the project for authorization
// purposes. Admins pass the membership check everywhere.
func IsMember(u User, p Project) bool {
	return u.IsAdmin || p.HasMember(u.ID)
}
