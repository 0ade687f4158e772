package service

import (
	"context"
	"errors"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/idx"
)

type CategoryService struct {
	Store store.Store

	Now func() time.Time
}

func (s *CategoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateCategory adds a category to a project. Any project member may manage
// categories.
func (s *CategoryService) CreateCategory(ctx context.Context, actorID, projectID, name, color string) (domain.Category, error) {
	if name == "" {
		return domain.Category{}, errors.New("category name is required")
	}

	var category domain.Category
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := requireMembership(ctx, tx, actorID, projectID); err != nil {
			return err
		}

		now := s.now()
		category = domain.Category{
			ID:        idx.New().String(),
			ProjectID: projectID,
			Name:      name,
			Color:     color,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Categories().CreateCategory(ctx, category)
	})
	if err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// ListCategories returns a project's categories to any member.
func (s *CategoryService) ListCategories(ctx context.Context, actorID, projectID string) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := requireMembership(ctx, tx, actorID, projectID); err != nil {
			return err
		}
		var err error
		categories, err = tx.Categories().ListProjectCategories(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory renames or recolors a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, actorID, categoryID, name, color string) error {
	if name == "" {
		return errors.New("category name is required")
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		category, err := tx.Categories().GetCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if err := requireMembership(ctx, tx, actorID, category.ProjectID); err != nil {
			return err
		}
		return tx.Categories().UpdateCategory(ctx, categoryID, name, color)
	})
}

// DeleteCategory removes a category; tasks referencing it are detached and
// keep functioning without it.
func (s *CategoryService) DeleteCategory(ctx context.Context, actorID, categoryID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		category, err := tx.Categories().GetCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if err := requireMembership(ctx, tx, actorID, category.ProjectID); err != nil {
			return err
		}
		return tx.Categories().DeleteCategory(ctx, categoryID)
	})
}

// requireMembership enforces the project-member rule shared by category
// operations.
func requireMembership(ctx context.Context, tx store.Tx, actorID, projectID string) error {
	actor, err := tx.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return err
	}
	project, err := tx.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !domain.IsMember(actor, project) {
		return ErrUnauthorized
	}
	return nil
}
