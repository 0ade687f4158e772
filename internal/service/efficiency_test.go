package service

import (
	"context"
	"testing"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/stretchr/testify/require"
)

func TestEfficiencyReport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EfficiencyService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	worker := seedUser(t, st, "worker", false)
	project := seedProject(t, st, owner.ID, worker.ID)

	dueTomorrow := testEpoch.AddDate(0, 0, 1)
	dueLastWeek := testEpoch.AddDate(0, 0, -7)
	completedOnTime := testEpoch
	completedLate := dueLastWeek.AddDate(0, 0, 2)

	// Four assigned tasks: one closed on time, one done late and still
	// awaiting sign-off, one open past its due date, one in progress.
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "closed on time", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskClosed,
		DueDate: &dueTomorrow, CompletedAt: &completedOnTime,
	})
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "done late", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskDone, AwaitingConfirmation: true,
		DueDate: &dueLastWeek, CompletedAt: &completedLate,
	})
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "overdue open", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskOpen, DueDate: &dueLastWeek,
	})
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "in flight", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskInProgress,
	})

	// Assigned elsewhere to someone else; must not count.
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "not ours", CreatorID: owner.ID,
		AssigneeID: owner.ID, Status: domain.TaskClosed,
	})

	t.Run("score blends completion, punctuality and overdue debt", func(t *testing.T) {
		report, err := svc.Report(ctx, worker.ID)
		require.NoError(t, err)

		require.Equal(t, 4, report.TotalAssigned)
		require.Equal(t, 2, report.Completed)
		require.Equal(t, 1, report.OnTime)
		// The done-but-unconfirmed late task is still overdue alongside the
		// open one.
		require.Equal(t, 2, report.OverdueOpen)

		// 60*(2/4) + 40*(1/2) - 20*(2/4) = 40
		require.NotNil(t, report.Score)
		require.Equal(t, 40, *report.Score)
		require.Equal(t, domain.LevelNeedsImprovement, report.Level)
	})

	t.Run("no assigned tasks yields no score", func(t *testing.T) {
		idle := seedUser(t, st, "idle", false)
		report, err := svc.Report(ctx, idle.ID)
		require.NoError(t, err)

		require.Zero(t, report.TotalAssigned)
		require.Nil(t, report.Score)
		require.Equal(t, domain.LevelInsufficientData, report.Level)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Report(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestEfficiencyScoreJustBelowGoodBand(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EfficiencyService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	worker := seedUser(t, st, "worker", false)
	project := seedProject(t, st, owner.ID, worker.ID)

	dueTomorrow := testEpoch.AddDate(0, 0, 1)
	dueLastWeek := testEpoch.AddDate(0, 0, -7)
	completedOnTime := testEpoch

	// Four assigned, two completed, one of those on time, one task overdue:
	// 60*(2/4) + 40*(1/2) - 20*(1/4) = 45. That lands one band below Good,
	// which starts at 50.
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "closed on time", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskClosed,
		DueDate: &dueTomorrow, CompletedAt: &completedOnTime,
	})
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "done, no deadline", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskDone, AwaitingConfirmation: true,
		CompletedAt: &completedOnTime,
	})
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "overdue open", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskOpen, DueDate: &dueLastWeek,
	})
	seedTask(t, st, domain.Task{
		ProjectID: project.ID, Title: "in flight", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskInProgress,
	})

	report, err := svc.Report(ctx, worker.ID)
	require.NoError(t, err)
	require.Equal(t, 4, report.TotalAssigned)
	require.Equal(t, 2, report.Completed)
	require.Equal(t, 1, report.OnTime)
	require.Equal(t, 1, report.OverdueOpen)
	require.NotNil(t, report.Score)
	require.Equal(t, 45, *report.Score)
	require.Equal(t, domain.LevelNeedsImprovement, report.Level)
}

func TestEfficiencyCrossesProjects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EfficiencyService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	other := seedUser(t, st, "other-owner", false)
	worker := seedUser(t, st, "worker", false)
	first := seedProject(t, st, owner.ID, worker.ID)
	second := seedProject(t, st, other.ID, worker.ID)

	due := testEpoch.AddDate(0, 0, 1)
	done := testEpoch.Add(-time.Hour)
	seedTask(t, st, domain.Task{
		ProjectID: first.ID, Title: "a", CreatorID: owner.ID,
		AssigneeID: worker.ID, Status: domain.TaskClosed,
		DueDate: &due, CompletedAt: &done,
	})
	seedTask(t, st, domain.Task{
		ProjectID: second.ID, Title: "b", CreatorID: other.ID,
		AssigneeID: worker.ID, Status: domain.TaskClosed,
		DueDate: &due, CompletedAt: &done,
	})

	report, err := svc.Report(ctx, worker.ID)
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalAssigned)
	require.Equal(t, 2, report.Completed)
	require.Equal(t, 2, report.OnTime)
	require.NotNil(t, report.Score)
	require.Equal(t, 100, *report.Score)
	require.Equal(t, domain.LevelExcellent, report.Level)
}
