package service

import (
	"context"
	"testing"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/stretchr/testify/require"
)

func TestTaskHistory(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TaskService{Store: st, Now: fixedNow(testEpoch)}

	creator := seedUser(t, st, "creator", false)
	assignee := seedUser(t, st, "assignee", false)
	bystander := seedUser(t, st, "bystander", false)
	project := seedProject(t, st, creator.ID, assignee.ID, bystander.ID)

	task, err := svc.CreateTask(ctx, creator.ID, CreateTaskInput{
		ProjectID:  project.ID,
		Title:      "Write the runbook",
		AssigneeID: assignee.ID,
	})
	require.NoError(t, err)

	_, err = svc.MarkDone(ctx, assignee.ID, task.ID)
	require.NoError(t, err)
	_, err = svc.RequestRework(ctx, creator.ID, task.ID)
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, assignee.ID, task.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmCompletion(ctx, creator.ID, task.ID)
	require.NoError(t, err)

	t.Run("timeline records every transition in order", func(t *testing.T) {
		events, err := svc.TaskHistory(ctx, creator.ID, task.ID)
		require.NoError(t, err)
		require.Len(t, events, 5)

		messages := make([]string, 0, len(events))
		for _, e := range events {
			require.Equal(t, task.ID, e.TaskID)
			messages = append(messages, e.Message)
		}
		require.Equal(t, []string{
			"Task created",
			"Marked done, awaiting confirmation",
			"Rework requested",
			"Marked done, awaiting confirmation",
			"Completion confirmed, task closed",
		}, messages)

		require.Equal(t, creator.ID, events[0].ActorID)
		require.Equal(t, assignee.ID, events[1].ActorID)
	})

	t.Run("rejected transitions leave no trace", func(t *testing.T) {
		_, err := svc.MarkDone(ctx, assignee.ID, task.ID)
		require.ErrorIs(t, err, ErrInvalidState)

		events, err := svc.TaskHistory(ctx, creator.ID, task.ID)
		require.NoError(t, err)
		require.Len(t, events, 5)
	})

	t.Run("history is invisible to a user who cannot see the task", func(t *testing.T) {
		_, err := svc.TaskHistory(ctx, bystander.ID, task.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTaskHistoryRecordsEdits(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TaskService{Store: st, Now: fixedNow(testEpoch)}

	creator := seedUser(t, st, "creator", false)
	project := seedProject(t, st, creator.ID)

	task, err := svc.CreateTask(ctx, creator.ID, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Draft",
	})
	require.NoError(t, err)

	_, err = svc.UpdateTask(ctx, creator.ID, task.ID, UpdateTaskInput{Title: "Final draft"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, creator.ID, task.ID, domain.TaskInProgress)
	require.NoError(t, err)

	events, err := svc.TaskHistory(ctx, creator.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "Task updated", events[1].Message)
	require.Equal(t, "Status changed to in_progress", events[2].Message)
}

func TestTaskComments(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TaskService{Store: st, Now: fixedNow(testEpoch)}

	creator := seedUser(t, st, "creator", false)
	watcher := seedUser(t, st, "watcher", false)
	bystander := seedUser(t, st, "bystander", false)
	project := seedProject(t, st, creator.ID, watcher.ID, bystander.ID)

	task, err := svc.CreateTask(ctx, creator.ID, CreateTaskInput{
		ProjectID:  project.ID,
		Title:      "Review the proposal",
		WatcherIDs: []string{watcher.ID},
	})
	require.NoError(t, err)

	t.Run("anyone who sees the task may comment", func(t *testing.T) {
		first, err := svc.AddComment(ctx, creator.ID, task.ID, "First pass looks fine")
		require.NoError(t, err)
		require.Equal(t, creator.ID, first.AuthorID)
		require.True(t, first.CreatedAt.Equal(testEpoch))

		second, err := svc.AddComment(ctx, watcher.ID, task.ID, "  Agreed, one nit inline  ")
		require.NoError(t, err)
		require.Equal(t, "Agreed, one nit inline", second.Body)

		comments, err := svc.ListComments(ctx, watcher.ID, task.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		require.Equal(t, first.ID, comments[0].ID)
		require.Equal(t, second.ID, comments[1].ID)
	})

	t.Run("blank comments are rejected", func(t *testing.T) {
		_, err := svc.AddComment(ctx, creator.ID, task.ID, "   ")
		require.ErrorIs(t, err, ErrEmptyComment)
	})

	t.Run("a user who cannot see the task cannot comment or read", func(t *testing.T) {
		_, err := svc.AddComment(ctx, bystander.ID, task.ID, "Let me in")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = svc.ListComments(ctx, bystander.ID, task.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
