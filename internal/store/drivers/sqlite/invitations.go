package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/taskforge/taskforge/internal/domain"
)

type invitationsRepo struct {
	q dbtx
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invitations (project_id, email, token, created_at)
		 VALUES (?, ?, ?, ?)`,
		inv.ProjectID, strings.ToLower(inv.Email), inv.Token, inv.CreatedAt)
	return mapConstraint(err)
}

func (r *invitationsRepo) ListProjectInvitations(ctx context.Context, projectID string) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT project_id, email, token, created_at FROM invitations
		 WHERE project_id = ? ORDER BY created_at ASC, email ASC`,
		projectID)
	if err != nil {
		return nil, err
	}
	return collectInvitations(rows)
}

func (r *invitationsRepo) ListInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT project_id, email, token, created_at FROM invitations
		 WHERE email = ? ORDER BY created_at ASC, project_id ASC`,
		strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return collectInvitations(rows)
}

func (r *invitationsRepo) DeleteInvitationByToken(ctx context.Context, projectID, token string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE project_id = ? AND token = ?`,
		projectID, token)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitationsRepo) DeleteInvitationsByEmail(ctx context.Context, projectID, email string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE project_id = ? AND email = ?`,
		projectID, strings.ToLower(email))
	return err
}

func collectInvitations(rows *sql.Rows) ([]domain.Invitation, error) {
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		if err := rows.Scan(&inv.ProjectID, &inv.Email, &inv.Token, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}
