package service

import (
	"context"
	"testing"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/internal/store/drivers/sqlite"
	"github.com/taskforge/taskforge/pkg/idx"
	"github.com/stretchr/testify/require"
)

// testEpoch is the frozen reference time injected into services under test.
var testEpoch = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, name string, admin bool) domain.User {
	t.Helper()

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "argon2id-placeholder",
		IsAdmin:      admin,
		CreatedAt:    testEpoch,
		UpdatedAt:    testEpoch,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func seedProject(t *testing.T, st store.Store, ownerID string, memberIDs ...string) domain.Project {
	t.Helper()
	ctx := context.Background()

	project := domain.Project{
		ID:        idx.New().String(),
		Name:      "Test Project",
		OwnerID:   ownerID,
		Status:    domain.ProjectActive,
		CreatedAt: testEpoch,
		UpdatedAt: testEpoch,
	}
	require.NoError(t, st.Projects().CreateProject(ctx, project))
	for _, memberID := range memberIDs {
		require.NoError(t, st.Projects().AddMember(ctx, project.ID, memberID))
	}
	project.MemberIDs = memberIDs
	return project
}

func seedTask(t *testing.T, st store.Store, task domain.Task) domain.Task {
	t.Helper()

	if task.ID == "" {
		task.ID = idx.New().String()
	}
	if task.Status == "" {
		task.Status = domain.TaskOpen
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = testEpoch
		task.UpdatedAt = testEpoch
	}
	require.NoError(t, st.Tasks().CreateTask(context.Background(), task))
	return task
}

func ptr[T any](v T) *T { return &v }
