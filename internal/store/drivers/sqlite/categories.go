package sqlite

import (
	"context"

	"github.com/taskforge/taskforge/internal/domain"
)

type categoriesRepo struct {
	q dbtx
}

const categoryColumns = `id, project_id, name, color, created_at, updated_at`

func (r *categoriesRepo) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

func (r *categoriesRepo) ListProjectCategories(ctx context.Context, projectID string) ([]domain.Category, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE project_id = ? ORDER BY created_at ASC, id ASC`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO categories (id, project_id, name, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ProjectID, c.Name, c.Color, c.CreatedAt, c.UpdatedAt)
	return mapConstraint(err)
}

func (r *categoriesRepo) UpdateCategory(ctx context.Context, categoryID, name, color string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, color, categoryID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *categoriesRepo) DeleteCategory(ctx context.Context, categoryID string) error {
	// task_categories rows cascade, detaching the category from its tasks.
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`, categoryID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Category{}, mapNotFound(err)
	}
	return c, nil
}
