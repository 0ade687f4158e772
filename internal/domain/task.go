package domain

import (
	"slices"
	"time"
)

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskClosed     TaskStatus = "closed"
)

// ValidTaskStatus reports whether s is one of the four known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone, TaskClosed:
		return true
	}
	return false
}

// Task invariant: AwaitingConfirmation implies Status == TaskDone. The
// lifecycle operations in the service layer are the only writers and each one
// re-establishes the invariant before persisting.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      TaskStatus
	// AwaitingConfirmation marks the handshake window between the assignee
	// marking the task done and the creator signing off.
	AwaitingConfirmation bool
	DueDate              *time.Time
	CategoryIDs          []string
	CreatorID            string
	AssigneeID           string // empty when unassigned
	WatcherIDs           []string
	CompletedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// VisibleTo reports whether u may read the task. Admins see everything;
// everyone else must be its creator, assignee or watcher. Visibility is
// task-level: plain project membership grants nothing.
func (t Task) VisibleTo(u User) bool {
	if u.IsAdmin {
		return true
	}
	return t.CreatorID == u.ID ||
		(t.AssigneeID != "" && t.AssigneeID == u.ID) ||
		slices.Contains(t.WatcherIDs, u.ID)
}

// VisibleTasks filters tasks down to the subset u is entitled to see,
// preserving input order. This is the sole read access control for tasks and
// must run before any task list crosses the service boundary.
func VisibleTasks(u User, tasks []Task) []Task {
	if u.IsAdmin {
		return tasks
	}
	visible := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.VisibleTo(u) {
			visible = append(visible, t)
		}
	}
	return visible
}
