package domain

import "time"

// TaskEvent is one history entry on a task's timeline. Events are written by
// the lifecycle operations alongside the mutation they describe and are never
// edited or deleted afterwards.
type TaskEvent struct {
	ID        string
	TaskID    string
	ActorID   string
	Message   string
	CreatedAt time.Time
}

// TaskComment is a free-form note left on a task by anyone who can see it.
type TaskComment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
