package sqlite

import (
	"context"
	"database/sql"

	"github.com/taskforge/taskforge/internal/domain"
)

type projectsRepo struct {
	q dbtx
}

const projectColumns = `id, name, description, owner_id, status, created_at, updated_at`

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, err
	}
	return r.hydrate(ctx, p)
}

func (r *projectsRepo) ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE owner_id = ?
		    OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)
		 ORDER BY created_at DESC, id DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *projectsRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, owner_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.OwnerID, p.Status, p.CreatedAt, p.UpdatedAt)
	return mapConstraint(err)
}

func (r *projectsRepo) UpdateProjectStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, projectID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *projectsRepo) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id, added_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (project_id, user_id) DO NOTHING`,
		projectID, userID)
	return err
}

func (r *projectsRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID)
	return err
}

// collect scans project rows and hydrates each with members and invitations.
func (r *projectsRepo) collect(ctx context.Context, rows *sql.Rows) ([]domain.Project, error) {
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		p, err := r.hydrate(ctx, projects[i])
		if err != nil {
			return nil, err
		}
		projects[i] = p
	}
	return projects, nil
}

func (r *projectsRepo) hydrate(ctx context.Context, p domain.Project) (domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT user_id FROM project_members WHERE project_id = ? ORDER BY added_at ASC, user_id ASC`,
		p.ID)
	if err != nil {
		return domain.Project{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return domain.Project{}, err
		}
		p.MemberIDs = append(p.MemberIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return domain.Project{}, err
	}

	invitations, err := (&invitationsRepo{q: r.q}).ListProjectInvitations(ctx, p.ID)
	if err != nil {
		return domain.Project{}, err
	}
	p.Invitations = invitations
	return p, nil
}

func scanProject(row rowScanner) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return p, nil
}
