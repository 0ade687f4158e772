package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/idx"
	"github.com/taskforge/taskforge/pkg/slogx"
)

// ErrEmptyComment means a comment was submitted with a blank body.
var ErrEmptyComment = errors.New("comment body must not be empty")

// TaskService is the task lifecycle engine. Every mutation is a
// read-modify-write inside a single store transaction so concurrent
// transitions on the same task serialize and the confirmation invariant
// (awaiting confirmation implies status done) holds after every operation.
type TaskService struct {
	Store store.Store

	// Now is injectable for tests; defaults to time.Now UTC.
	Now func() time.Time
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateTaskInput carries the caller-editable fields for a new task.
type CreateTaskInput struct {
	ProjectID   string
	Title       string
	Description string
	DueDate     *time.Time
	CategoryIDs []string
	AssigneeID  string
	WatcherIDs  []string
}

// UpdateTaskInput is a patch: nil pointers leave the field untouched.
type UpdateTaskInput struct {
	Title        string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	CategoryIDs  *[]string
	AssigneeID   *string // empty string unassigns
	WatcherIDs   *[]string
	Status       *domain.TaskStatus
}

// CreateTask creates a new open task. The actor must be a member of the
// project and becomes the creator; every referenced category must belong to
// the project and every assignee/watcher must be an actual project member.
func (s *TaskService) CreateTask(ctx context.Context, actorID string, in CreateTaskInput) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	if in.Title == "" {
		return domain.Task{}, ErrInvalidReference
	}

	var task domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Resolve actor and project.
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		project, err := tx.Projects().GetProjectByID(ctx, in.ProjectID)
		if err != nil {
			return err
		}

		// 2. Any project member may create tasks.
		if !domain.IsMember(actor, project) {
			log.Warn("task create rejected: actor is not a project member",
				slog.String("actor_id", actorID),
				slog.String("project_id", project.ID),
			)
			return ErrUnauthorized
		}

		// 3. Validate category and member references.
		if err := validateTaskRefs(ctx, tx, project, in.CategoryIDs, in.AssigneeID, in.WatcherIDs); err != nil {
			return err
		}

		now := s.now()
		task = domain.Task{
			ID:          idx.New().String(),
			ProjectID:   project.ID,
			Title:       in.Title,
			Description: in.Description,
			Status:      domain.TaskOpen,
			DueDate:     in.DueDate,
			CategoryIDs: in.CategoryIDs,
			CreatorID:   actor.ID,
			AssigneeID:  in.AssigneeID,
			WatcherIDs:  in.WatcherIDs,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Tasks().CreateTask(ctx, task); err != nil {
			return err
		}
		return s.recordEvent(ctx, tx, actor.ID, task.ID, "Task created")
	})
	if err != nil {
		return domain.Task{}, err
	}

	log.Debug("task created",
		slog.String("task_id", task.ID),
		slog.String("project_id", task.ProjectID),
		slog.String("creator_id", task.CreatorID),
	)
	return task, nil
}

// UpdateTask edits a task's editable fields. Only the creator may edit.
// An explicit status change away from done clears the pending confirmation
// handshake; a direct change to done stamps completedAt if unset.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID string, in UpdateTaskInput) (domain.Task, error) {
	var task domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = tx.Tasks().GetTaskByID(ctx, taskID)
		if err != nil {
			return err
		}

		// 1. Edit rights belong to the creator alone, admins included.
		if task.CreatorID != actorID {
			return ErrUnauthorized
		}

		// 2. Apply the patch.
		if in.Title != "" {
			task.Title = in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.ClearDueDate {
			task.DueDate = nil
		} else if in.DueDate != nil {
			task.DueDate = in.DueDate
		}
		if in.CategoryIDs != nil {
			task.CategoryIDs = *in.CategoryIDs
		}
		if in.AssigneeID != nil {
			task.AssigneeID = *in.AssigneeID
		}
		if in.WatcherIDs != nil {
			task.WatcherIDs = *in.WatcherIDs
		}

		// 3. Re-validate references against the owning project.
		project, err := tx.Projects().GetProjectByID(ctx, task.ProjectID)
		if err != nil {
			return err
		}
		if err := validateTaskRefs(ctx, tx, project, task.CategoryIDs, task.AssigneeID, task.WatcherIDs); err != nil {
			return err
		}

		// 4. An explicit status change goes through the direct-set rules.
		if in.Status != nil {
			if err := s.applyStatus(&task, *in.Status); err != nil {
				return err
			}
		}

		task.UpdatedAt = s.now()
		if err := tx.Tasks().UpdateTask(ctx, task); err != nil {
			return err
		}
		return s.recordEvent(ctx, tx, actorID, task.ID, "Task updated")
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// SetStatus changes the task status directly (project board drag). Only the
// creator may move a task this way; the assignee's path is MarkDone.
func (s *TaskService) SetStatus(ctx context.Context, actorID, taskID string, status domain.TaskStatus) (domain.Task, error) {
	return s.transition(ctx, actorID, taskID, func(task *domain.Task) (string, error) {
		if task.CreatorID != actorID {
			return "", ErrUnauthorized
		}
		if err := s.applyStatus(task, status); err != nil {
			return "", err
		}
		return fmt.Sprintf("Status changed to %s", status), nil
	})
}

// MarkDone is the assignee reporting the work finished. The task enters the
// confirmation handshake: done and awaiting the creator's sign-off.
func (s *TaskService) MarkDone(ctx context.Context, actorID, taskID string) (domain.Task, error) {
	return s.transition(ctx, actorID, taskID, func(task *domain.Task) (string, error) {
		if task.AssigneeID == "" || task.AssigneeID != actorID {
			return "", ErrUnauthorized
		}
		if task.Status == domain.TaskDone || task.Status == domain.TaskClosed {
			return "", ErrInvalidState
		}

		now := s.now()
		task.Status = domain.TaskDone
		task.AwaitingConfirmation = true
		task.CompletedAt = &now
		return "Marked done, awaiting confirmation", nil
	})
}

// ConfirmCompletion is the creator accepting finished work: the task closes
// and leaves the handshake.
func (s *TaskService) ConfirmCompletion(ctx context.Context, actorID, taskID string) (domain.Task, error) {
	return s.transition(ctx, actorID, taskID, func(task *domain.Task) (string, error) {
		if task.CreatorID != actorID {
			return "", ErrUnauthorized
		}
		if task.Status != domain.TaskDone || !task.AwaitingConfirmation {
			return "", ErrInvalidState
		}

		task.Status = domain.TaskClosed
		task.AwaitingConfirmation = false
		return "Completion confirmed, task closed", nil
	})
}

// RequestRework is the creator rejecting finished work: the task returns to
// in_progress and the completion timestamp is cleared.
func (s *TaskService) RequestRework(ctx context.Context, actorID, taskID string) (domain.Task, error) {
	return s.transition(ctx, actorID, taskID, func(task *domain.Task) (string, error) {
		if task.CreatorID != actorID {
			return "", ErrUnauthorized
		}
		if task.Status != domain.TaskDone || !task.AwaitingConfirmation {
			return "", ErrInvalidState
		}

		task.Status = domain.TaskInProgress
		task.AwaitingConfirmation = false
		task.CompletedAt = nil
		return "Rework requested", nil
	})
}

// GetTask returns a single task if the actor is entitled to see it. An
// invisible task is indistinguishable from a missing one.
func (s *TaskService) GetTask(ctx context.Context, actorID, taskID string) (domain.Task, error) {
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return domain.Task{}, err
	}
	task, err := s.Store.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if !task.VisibleTo(actor) {
		return domain.Task{}, store.ErrNotFound
	}
	return task, nil
}

// ListProjectTasks returns the project's tasks the actor may see, newest
// first. The visibility filter is the sole read access control: a plain
// member who is neither creator, assignee nor watcher of a task sees nothing.
func (s *TaskService) ListProjectTasks(ctx context.Context, actorID, projectID string) ([]domain.Task, error) {
	var visible []domain.Task
	// Read through a transaction so the status/awaiting pair of each task is
	// a consistent snapshot.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		if _, err := tx.Projects().GetProjectByID(ctx, projectID); err != nil {
			return err
		}
		tasks, err := tx.Tasks().ListProjectTasks(ctx, projectID)
		if err != nil {
			return err
		}
		visible = domain.VisibleTasks(actor, tasks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return visible, nil
}

// TaskHistory returns the task's event timeline, oldest first. Read access
// follows the same rule as GetTask: a task the actor may not see reads as
// missing.
func (s *TaskService) TaskHistory(ctx context.Context, actorID, taskID string) ([]domain.TaskEvent, error) {
	if _, err := s.GetTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	return s.Store.Tasks().ListTaskEvents(ctx, taskID)
}

// ListComments returns the task's comments, oldest first, under the same
// visibility rule as TaskHistory.
func (s *TaskService) ListComments(ctx context.Context, actorID, taskID string) ([]domain.TaskComment, error) {
	if _, err := s.GetTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	return s.Store.Tasks().ListTaskComments(ctx, taskID)
}

// AddComment leaves a note on a task. Anyone who can see the task may
// comment; watchers included, since commenting is how they participate.
func (s *TaskService) AddComment(ctx context.Context, actorID, taskID, body string) (domain.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.TaskComment{}, ErrEmptyComment
	}

	var comment domain.TaskComment
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		task, err := tx.Tasks().GetTaskByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.VisibleTo(actor) {
			return store.ErrNotFound
		}

		comment = domain.TaskComment{
			ID:        idx.New().String(),
			TaskID:    task.ID,
			AuthorID:  actor.ID,
			Body:      body,
			CreatedAt: s.now(),
		}
		return tx.Tasks().CreateTaskComment(ctx, comment)
	})
	if err != nil {
		return domain.TaskComment{}, err
	}
	return comment, nil
}

// transition runs fn on the current task state inside a transaction and
// persists the result, so concurrent transitions serialize. The message fn
// returns becomes the history entry for the mutation.
func (s *TaskService) transition(ctx context.Context, actorID, taskID string, fn func(*domain.Task) (string, error)) (domain.Task, error) {
	var task domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = tx.Tasks().GetTaskByID(ctx, taskID)
		if err != nil {
			return err
		}
		message, err := fn(&task)
		if err != nil {
			return err
		}
		task.UpdatedAt = s.now()
		if err := tx.Tasks().UpdateTask(ctx, task); err != nil {
			return err
		}
		return s.recordEvent(ctx, tx, actorID, task.ID, message)
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// recordEvent appends a history entry inside the mutation's transaction so
// the timeline never disagrees with the task state.
func (s *TaskService) recordEvent(ctx context.Context, tx store.Tx, actorID, taskID, message string) error {
	return tx.Tasks().CreateTaskEvent(ctx, domain.TaskEvent{
		ID:        idx.New().String(),
		TaskID:    taskID,
		ActorID:   actorID,
		Message:   message,
		CreatedAt: s.now(),
	})
}

// applyStatus sets a directly requested status, re-establishing the
// confirmation invariant: leaving done always clears the handshake, and
// arriving at done directly stamps completedAt if it was never set.
func (s *TaskService) applyStatus(task *domain.Task, status domain.TaskStatus) error {
	if !domain.ValidTaskStatus(status) {
		return ErrInvalidState
	}

	task.Status = status
	if status != domain.TaskDone {
		task.AwaitingConfirmation = false
	}
	if status == domain.TaskDone && task.CompletedAt == nil {
		now := s.now()
		task.CompletedAt = &now
	}
	return nil
}

// validateTaskRefs checks that every category belongs to the project and
// every referenced user is an actual project member (owner or stored member;
// the admin override deliberately does not apply here).
func validateTaskRefs(
	ctx context.Context,
	tx store.Tx,
	project domain.Project,
	categoryIDs []string,
	assigneeID string,
	watcherIDs []string,
) error {
	for _, categoryID := range categoryIDs {
		category, err := tx.Categories().GetCategoryByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidReference
			}
			return err
		}
		if category.ProjectID != project.ID {
			return ErrInvalidReference
		}
	}

	if assigneeID != "" && !project.HasMember(assigneeID) {
		return ErrInvalidReference
	}
	for _, watcherID := range watcherIDs {
		if !project.HasMember(watcherID) {
			return ErrInvalidReference
		}
	}
	return nil
}
