package sqlite

import (
	"context"
	"database/sql"

	"github.com/taskforge/taskforge/internal/domain"
)

type tasksRepo struct {
	q dbtx
}

const taskColumns = `id, project_id, title, description, status, awaiting_confirmation,
	due_date, creator_id, assignee_id, completed_at, created_at, updated_at`

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, err
	}
	return r.hydrate(ctx, t)
}

func (r *tasksRepo) ListProjectTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE project_id = ? ORDER BY created_at DESC, id DESC`,
		projectID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *tasksRepo) ListAssignedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE assignee_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, description, status, awaiting_confirmation,
		                    due_date, creator_id, assignee_id, completed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.AwaitingConfirmation,
		mapOptionalTime(t.DueDate), t.CreatorID, mapStringNull(t.AssigneeID),
		mapOptionalTime(t.CompletedAt), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return mapConstraint(err)
	}
	return r.writeSets(ctx, t)
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, awaiting_confirmation = ?,
		        due_date = ?, assignee_id = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.Status, t.AwaitingConfirmation,
		mapOptionalTime(t.DueDate), mapStringNull(t.AssigneeID),
		mapOptionalTime(t.CompletedAt), t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	// Replace the category and watcher sets wholesale.
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM task_categories WHERE task_id = ?`, t.ID); err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM task_watchers WHERE task_id = ?`, t.ID); err != nil {
		return err
	}
	return r.writeSets(ctx, t)
}

func (r *tasksRepo) DetachMember(ctx context.Context, projectID, userID string) error {
	if _, err := r.q.ExecContext(ctx,
		`UPDATE tasks SET assignee_id = NULL
		 WHERE project_id = ? AND assignee_id = ?`,
		projectID, userID); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM task_watchers WHERE user_id = ?
		 AND task_id IN (SELECT id FROM tasks WHERE project_id = ?)`,
		userID, projectID)
	return err
}

func (r *tasksRepo) writeSets(ctx context.Context, t domain.Task) error {
	for _, categoryID := range t.CategoryIDs {
		if _, err := r.q.ExecContext(ctx,
			`INSERT INTO task_categories (task_id, category_id) VALUES (?, ?)
			 ON CONFLICT (task_id, category_id) DO NOTHING`,
			t.ID, categoryID); err != nil {
			return err
		}
	}
	for _, userID := range t.WatcherIDs {
		if _, err := r.q.ExecContext(ctx,
			`INSERT INTO task_watchers (task_id, user_id) VALUES (?, ?)
			 ON CONFLICT (task_id, user_id) DO NOTHING`,
			t.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *tasksRepo) collect(ctx context.Context, rows *sql.Rows) ([]domain.Task, error) {
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		t, err := r.hydrate(ctx, tasks[i])
		if err != nil {
			return nil, err
		}
		tasks[i] = t
	}
	return tasks, nil
}

func (r *tasksRepo) hydrate(ctx context.Context, t domain.Task) (domain.Task, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT category_id FROM task_categories WHERE task_id = ? ORDER BY category_id ASC`, t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	t.CategoryIDs, err = collectIDs(rows)
	if err != nil {
		return domain.Task{}, err
	}

	rows, err = r.q.QueryContext(ctx,
		`SELECT user_id FROM task_watchers WHERE task_id = ? ORDER BY user_id ASC`, t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	t.WatcherIDs, err = collectIDs(rows)
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func collectIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t           domain.Task
		dueDate     sql.NullTime
		assigneeID  sql.NullString
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
		&t.AwaitingConfirmation, &dueDate, &t.CreatorID, &assigneeID,
		&completedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	t.DueDate = mapNullTimePtr(dueDate)
	t.AssigneeID = mapNullString(assigneeID)
	t.CompletedAt = mapNullTimePtr(completedAt)
	return t, nil
}
