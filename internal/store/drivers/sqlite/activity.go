package sqlite

import (
	"context"

	"github.com/taskforge/taskforge/internal/domain"
)

func (r *tasksRepo) CreateTaskEvent(ctx context.Context, e domain.TaskEvent) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO task_events (id, task_id, actor_id, message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, e.ActorID, e.Message, e.CreatedAt)
	return err
}

func (r *tasksRepo) ListTaskEvents(ctx context.Context, taskID string) ([]domain.TaskEvent, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, task_id, actor_id, message, created_at FROM task_events
		 WHERE task_id = ? ORDER BY created_at ASC, id ASC`,
		taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.TaskEvent
	for rows.Next() {
		var e domain.TaskEvent
		if err := rows.Scan(&e.ID, &e.TaskID, &e.ActorID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *tasksRepo) CreateTaskComment(ctx context.Context, c domain.TaskComment) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO task_comments (id, task_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.AuthorID, c.Body, c.CreatedAt)
	return err
}

func (r *tasksRepo) ListTaskComments(ctx context.Context, taskID string) ([]domain.TaskComment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, task_id, author_id, body, created_at FROM task_comments
		 WHERE task_id = ? ORDER BY created_at ASC, id ASC`,
		taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.TaskComment
	for rows.Next() {
		var c domain.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
