package service

import "errors"

// Failure kinds shared by every service. Callers match with errors.Is and
// must not assume partial effects: a failed operation mutated nothing.
var (
	// ErrUnauthorized means the actor lacks the required relationship to the
	// entity (not creator/assignee/owner/admin as the operation demands).
	ErrUnauthorized = errors.New("actor is not authorized for this operation")

	// ErrInvalidState means the requested transition is not allowed from the
	// task's current status/confirmation pair.
	ErrInvalidState = errors.New("transition not allowed from current state")

	// ErrInvalidReference means a category, assignee or watcher does not
	// belong to the task's project.
	ErrInvalidReference = errors.New("reference not valid for this project")
)
