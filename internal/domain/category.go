package domain

import "time"

// Category belongs to exactly one project. Deleting one detaches it from all
// tasks that reference it; the tasks keep functioning without it.
type Category struct {
	ID        string
	ProjectID string
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
