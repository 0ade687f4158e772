package service

import (
	"context"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
)

// EfficiencyService computes a user's productivity score from their
// assigned-task history across every project. It is read-only and carries no
// authorization check of its own; the HTTP layer decides who may request
// whose score (a user may always request their own).
type EfficiencyService struct {
	Store store.Store

	Now func() time.Time
}

func (s *EfficiencyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Report scores the user at the current time.
func (s *EfficiencyService) Report(ctx context.Context, userID string) (domain.EfficiencyReport, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return domain.EfficiencyReport{}, err
	}

	assigned, err := s.Store.Tasks().ListAssignedTasks(ctx, userID)
	if err != nil {
		return domain.EfficiencyReport{}, err
	}
	return domain.ComputeEfficiency(assigned, s.now()), nil
}
