package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/idx"
	"github.com/taskforge/taskforge/pkg/slogx"
)

var ErrInvalidProjectStatus = errors.New("invalid project status")

type ProjectService struct {
	Store store.Store

	Now func() time.Time
}

func (s *ProjectService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateProject creates an active project owned by the actor. The owner is
// an implicit member and is not duplicated into the member set.
func (s *ProjectService) CreateProject(ctx context.Context, actorID, name, description string) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	if name == "" {
		return domain.Project{}, errors.New("project name is required")
	}
	if _, err := s.Store.Users().GetUserByID(ctx, actorID); err != nil {
		return domain.Project{}, err
	}

	now := s.now()
	project := domain.Project{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     actorID,
		Status:      domain.ProjectActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Projects().CreateProject(ctx, project); err != nil {
		return domain.Project{}, err
	}

	log.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("owner_id", actorID),
	)
	return project, nil
}

// GetProject returns a project the actor belongs to.
func (s *ProjectService) GetProject(ctx context.Context, actorID, projectID string) (domain.Project, error) {
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return domain.Project{}, err
	}
	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if !domain.IsMember(actor, project) {
		return domain.Project{}, ErrUnauthorized
	}
	return project, nil
}

// ListProjects returns the actor's projects; admins see every project.
func (s *ProjectService) ListProjects(ctx context.Context, actorID string) ([]domain.Project, error) {
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin {
		return s.Store.Projects().ListProjects(ctx)
	}
	return s.Store.Projects().ListProjectsForUser(ctx, actorID)
}

// SetProjectStatus flips a project between active and completed. Owner or
// admin only.
func (s *ProjectService) SetProjectStatus(ctx context.Context, actorID, projectID string, status domain.ProjectStatus) error {
	if status != domain.ProjectActive && status != domain.ProjectCompleted {
		return ErrInvalidProjectStatus
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := requireManager(ctx, tx, actorID, projectID); err != nil {
			return err
		}
		return tx.Projects().UpdateProjectStatus(ctx, projectID, status)
	})
}
