package service

import (
	"context"
	"testing"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	outsider := seedUser(t, st, "outsider", false)

	project, err := svc.CreateProject(ctx, owner.ID, "Migration", "move everything")
	require.NoError(t, err)
	require.Equal(t, domain.ProjectActive, project.Status)
	require.Equal(t, owner.ID, project.OwnerID)

	t.Run("owner reads the project", func(t *testing.T) {
		got, err := svc.GetProject(ctx, owner.ID, project.ID)
		require.NoError(t, err)
		require.Equal(t, project.ID, got.ID)
	})

	t.Run("non-members are denied", func(t *testing.T) {
		_, err := svc.GetProject(ctx, outsider.ID, project.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("owner completes and reopens", func(t *testing.T) {
		require.NoError(t, svc.SetProjectStatus(ctx, owner.ID, project.ID, domain.ProjectCompleted))

		got, err := svc.GetProject(ctx, owner.ID, project.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ProjectCompleted, got.Status)

		require.NoError(t, svc.SetProjectStatus(ctx, owner.ID, project.ID, domain.ProjectActive))
	})

	t.Run("members cannot change project status", func(t *testing.T) {
		member := seedUser(t, st, "member", false)
		require.NoError(t, st.Projects().AddMember(ctx, project.ID, member.ID))

		err := svc.SetProjectStatus(ctx, member.ID, project.ID, domain.ProjectCompleted)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := svc.SetProjectStatus(ctx, owner.ID, project.ID, domain.ProjectStatus("archived"))
		require.ErrorIs(t, err, ErrInvalidProjectStatus)
	})
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	member := seedUser(t, st, "member", false)
	admin := seedUser(t, st, "admin", true)

	mine, err := svc.CreateProject(ctx, owner.ID, "Mine", "")
	require.NoError(t, err)
	shared, err := svc.CreateProject(ctx, member.ID, "Shared", "")
	require.NoError(t, err)
	require.NoError(t, st.Projects().AddMember(ctx, shared.ID, owner.ID))

	projectIDs := func(projects []domain.Project) []string {
		ids := make([]string, 0, len(projects))
		for _, p := range projects {
			ids = append(ids, p.ID)
		}
		return ids
	}

	t.Run("users see owned and joined projects", func(t *testing.T) {
		projects, err := svc.ListProjects(ctx, owner.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{mine.ID, shared.ID}, projectIDs(projects))

		projects, err = svc.ListProjects(ctx, member.ID)
		require.NoError(t, err)
		require.Equal(t, []string{shared.ID}, projectIDs(projects))
	})

	t.Run("admins see every project", func(t *testing.T) {
		projects, err := svc.ListProjects(ctx, admin.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{mine.ID, shared.ID}, projectIDs(projects))
	})
}

func TestCategoryManagement(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CategoryService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	member := seedUser(t, st, "member", false)
	outsider := seedUser(t, st, "outsider", false)
	project := seedProject(t, st, owner.ID, member.ID)

	category, err := svc.CreateCategory(ctx, member.ID, project.ID, "Bug", "#d73a4a")
	require.NoError(t, err)
	require.Equal(t, project.ID, category.ProjectID)

	t.Run("members list categories", func(t *testing.T) {
		categories, err := svc.ListCategories(ctx, owner.ID, project.ID)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		require.Equal(t, "Bug", categories[0].Name)
	})

	t.Run("outsiders are denied", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, outsider.ID, project.ID, "Nope", "")
		require.ErrorIs(t, err, ErrUnauthorized)
		_, err = svc.ListCategories(ctx, outsider.ID, project.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rename and recolor", func(t *testing.T) {
		require.NoError(t, svc.UpdateCategory(ctx, member.ID, category.ID, "Defect", "#ff0000"))

		categories, err := svc.ListCategories(ctx, member.ID, project.ID)
		require.NoError(t, err)
		require.Equal(t, "Defect", categories[0].Name)
		require.Equal(t, "#ff0000", categories[0].Color)
	})

	t.Run("deleting a category detaches it from tasks", func(t *testing.T) {
		tasks := &TaskService{Store: st, Now: fixedNow(testEpoch)}
		task, err := tasks.CreateTask(ctx, owner.ID, CreateTaskInput{
			ProjectID:   project.ID,
			Title:       "Categorized",
			CategoryIDs: []string{category.ID},
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCategory(ctx, member.ID, category.ID))

		got, err := st.Tasks().GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		require.Empty(t, got.CategoryIDs)
	})
}
