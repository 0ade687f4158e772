package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeEfficiency(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	t.Run("no assigned tasks", func(t *testing.T) {
		report := ComputeEfficiency(nil, now)
		require.Zero(t, report.TotalAssigned)
		require.Nil(t, report.Score)
		require.Equal(t, LevelInsufficientData, report.Level)
	})

	t.Run("everything closed on time scores a hundred", func(t *testing.T) {
		done := yesterday
		report := ComputeEfficiency([]Task{
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
		}, now)

		require.NotNil(t, report.Score)
		require.Equal(t, 100, *report.Score)
		require.Equal(t, LevelExcellent, report.Level)
	})

	t.Run("completed on the due date itself counts as punctual", func(t *testing.T) {
		due := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
		lateEvening := time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC)
		report := ComputeEfficiency([]Task{
			{Status: TaskClosed, DueDate: &due, CompletedAt: &lateEvening},
		}, now)
		require.Equal(t, 1, report.OnTime)
	})

	t.Run("open tasks drag the score down", func(t *testing.T) {
		report := ComputeEfficiency([]Task{
			{Status: TaskOpen},
			{Status: TaskOpen},
		}, now)

		require.NotNil(t, report.Score)
		require.Equal(t, 0, *report.Score)
		require.Equal(t, LevelNeedsImprovement, report.Level)
	})

	t.Run("overdue penalty cannot push below zero", func(t *testing.T) {
		report := ComputeEfficiency([]Task{
			{Status: TaskOpen, DueDate: &yesterday},
			{Status: TaskOpen, DueDate: &yesterday},
		}, now)

		require.Equal(t, 2, report.OverdueOpen)
		require.NotNil(t, report.Score)
		require.Equal(t, 0, *report.Score)
	})

	t.Run("done but unconfirmed past due is still overdue", func(t *testing.T) {
		done := now
		report := ComputeEfficiency([]Task{
			{Status: TaskDone, AwaitingConfirmation: true, DueDate: &yesterday, CompletedAt: &done},
		}, now)

		require.Equal(t, 1, report.Completed)
		require.Equal(t, 1, report.OverdueOpen)
	})

	t.Run("due today is not yet overdue", func(t *testing.T) {
		today := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		report := ComputeEfficiency([]Task{
			{Status: TaskOpen, DueDate: &today},
		}, now)
		require.Zero(t, report.OverdueOpen)
	})

	t.Run("band boundaries", func(t *testing.T) {
		done := yesterday

		// 60% completion, all punctual: 36 + 40*1 = 76 -> Good.
		good := ComputeEfficiency([]Task{
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskInProgress},
			{Status: TaskInProgress},
		}, now)
		require.Equal(t, 76, *good.Score)
		require.Equal(t, LevelGood, good.Level)

		// 80% completion, all punctual: 48 + 40 = 88 -> Excellent.
		excellent := ComputeEfficiency([]Task{
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskClosed, DueDate: &tomorrow, CompletedAt: &done},
			{Status: TaskInProgress},
		}, now)
		require.Equal(t, 88, *excellent.Score)
		require.Equal(t, LevelExcellent, excellent.Level)
	})

	t.Run("completion without a due date cannot be punctual", func(t *testing.T) {
		done := yesterday
		report := ComputeEfficiency([]Task{
			{Status: TaskClosed, CompletedAt: &done},
		}, now)
		require.Equal(t, 1, report.Completed)
		require.Zero(t, report.OnTime)
	})
}
