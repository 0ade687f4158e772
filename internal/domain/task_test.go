package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskVisibleTo(t *testing.T) {
	t.Parallel()

	task := Task{
		CreatorID:  "creator",
		AssigneeID: "assignee",
		WatcherIDs: []string{"watcher-a", "watcher-b"},
	}

	t.Run("creator, assignee and watchers see the task", func(t *testing.T) {
		for _, id := range []string{"creator", "assignee", "watcher-a", "watcher-b"} {
			require.True(t, task.VisibleTo(User{ID: id}))
		}
	})

	t.Run("everyone else does not", func(t *testing.T) {
		require.False(t, task.VisibleTo(User{ID: "bystander"}))
	})

	t.Run("admins see everything", func(t *testing.T) {
		require.True(t, task.VisibleTo(User{ID: "bystander", IsAdmin: true}))
	})

	t.Run("empty assignee never matches an empty user id", func(t *testing.T) {
		unassigned := Task{CreatorID: "creator"}
		require.False(t, unassigned.VisibleTo(User{ID: ""}))
	})
}

func TestVisibleTasks(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		{ID: "1", CreatorID: "alice"},
		{ID: "2", CreatorID: "bob", AssigneeID: "alice"},
		{ID: "3", CreatorID: "bob"},
		{ID: "4", CreatorID: "bob", WatcherIDs: []string{"alice"}},
	}

	t.Run("filters while preserving order", func(t *testing.T) {
		visible := VisibleTasks(User{ID: "alice"}, tasks)
		require.Len(t, visible, 3)
		require.Equal(t, "1", visible[0].ID)
		require.Equal(t, "2", visible[1].ID)
		require.Equal(t, "4", visible[2].ID)
	})

	t.Run("admins get the input unchanged", func(t *testing.T) {
		visible := VisibleTasks(User{ID: "carol", IsAdmin: true}, tasks)
		require.Len(t, visible, 4)
	})

	t.Run("no matches yields an empty slice", func(t *testing.T) {
		visible := VisibleTasks(User{ID: "nobody"}, tasks)
		require.NotNil(t, visible)
		require.Empty(t, visible)
	})
}

func TestValidTaskStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []TaskStatus{TaskOpen, TaskInProgress, TaskDone, TaskClosed} {
		require.True(t, ValidTaskStatus(s))
	}
	require.False(t, ValidTaskStatus(TaskStatus("archived")))
	require.False(t, ValidTaskStatus(TaskStatus("")))
}
