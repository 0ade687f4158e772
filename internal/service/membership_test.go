package service

import (
	"context"
	"testing"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/stretchr/testify/require"
)

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MembershipService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	registered := seedUser(t, st, "registered", false)
	project := seedProject(t, st, owner.ID)

	t.Run("existing accounts join immediately", func(t *testing.T) {
		result, err := svc.AddMember(ctx, owner.ID, project.ID, "Registered@Example.com")
		require.NoError(t, err)
		require.Equal(t, registered.ID, result.AddedUserID)
		require.Nil(t, result.Invitation)

		got, err := st.Projects().GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		require.Contains(t, got.MemberIDs, registered.ID)
	})

	t.Run("unknown emails get an invitation", func(t *testing.T) {
		result, err := svc.AddMember(ctx, owner.ID, project.ID, "newcomer@example.com")
		require.NoError(t, err)
		require.Empty(t, result.AddedUserID)
		require.NotNil(t, result.Invitation)
		require.NotEmpty(t, result.Invitation.Token)
		require.True(t, result.Invitation.CreatedAt.Equal(testEpoch))
	})

	t.Run("re-inviting is a no-op that keeps the original invitation", func(t *testing.T) {
		first, err := svc.AddMember(ctx, owner.ID, project.ID, "newcomer@example.com")
		require.NoError(t, err)
		require.NotNil(t, first.Invitation)

		// Even long past expiry, a second invite does not refresh the clock.
		late := &MembershipService{Store: st, Now: fixedNow(testEpoch.AddDate(0, 0, 30))}
		second, err := late.AddMember(ctx, owner.ID, project.ID, "newcomer@example.com")
		require.NoError(t, err)
		require.NotNil(t, second.Invitation)
		require.Equal(t, first.Invitation.Token, second.Invitation.Token)
		require.True(t, second.Invitation.CreatedAt.Equal(testEpoch))
	})

	t.Run("adding the owner's own email does not duplicate membership", func(t *testing.T) {
		result, err := svc.AddMember(ctx, owner.ID, project.ID, owner.Email)
		require.NoError(t, err)
		require.Equal(t, owner.ID, result.AddedUserID)

		got, err := st.Projects().GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		require.NotContains(t, got.MemberIDs, owner.ID)
	})

	t.Run("plain members cannot manage membership", func(t *testing.T) {
		_, err := svc.AddMember(ctx, registered.ID, project.ID, "someone@example.com")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("admins manage any project", func(t *testing.T) {
		admin := seedUser(t, st, "admin", true)
		_, err := svc.AddMember(ctx, admin.ID, project.ID, "via-admin@example.com")
		require.NoError(t, err)
	})

	t.Run("blank email is rejected", func(t *testing.T) {
		_, err := svc.AddMember(ctx, owner.ID, project.ID, "   ")
		require.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestRemoveMemberDetachesTasks(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MembershipService{Store: st, Now: fixedNow(testEpoch)}
	tasks := &TaskService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	member := seedUser(t, st, "member", false)
	project := seedProject(t, st, owner.ID, member.ID)

	task, err := tasks.CreateTask(ctx, owner.ID, CreateTaskInput{
		ProjectID:  project.ID,
		Title:      "Handed off",
		AssigneeID: member.ID,
		WatcherIDs: []string{member.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(ctx, owner.ID, project.ID, member.ID))

	got, err := st.Projects().GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	require.NotContains(t, got.MemberIDs, member.ID)

	detached, err := st.Tasks().GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	require.Empty(t, detached.AssigneeID)
	require.NotContains(t, detached.WatcherIDs, member.ID)

	t.Run("the owner cannot be removed", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(ctx, owner.ID, project.ID, owner.ID))

		got, err := st.Projects().GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		require.Equal(t, owner.ID, got.OwnerID)
	})
}

func TestRevokeInvitation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MembershipService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	project := seedProject(t, st, owner.ID)

	result, err := svc.AddMember(ctx, owner.ID, project.ID, "invitee@example.com")
	require.NoError(t, err)
	require.NotNil(t, result.Invitation)

	t.Run("revoking removes the invitation", func(t *testing.T) {
		require.NoError(t, svc.RevokeInvitation(ctx, owner.ID, project.ID, result.Invitation.Token))

		got, err := st.Projects().GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		require.Empty(t, got.Invitations)
	})

	t.Run("unknown tokens report not found", func(t *testing.T) {
		err := svc.RevokeInvitation(ctx, owner.ID, project.ID, "no-such-token")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestListMembers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MembershipService{Store: st, Now: fixedNow(testEpoch)}

	owner := seedUser(t, st, "owner", false)
	member := seedUser(t, st, "member", false)
	outsider := seedUser(t, st, "outsider", false)
	project := seedProject(t, st, owner.ID, member.ID)

	_, err := svc.AddMember(ctx, owner.ID, project.ID, "fresh@example.com")
	require.NoError(t, err)

	stale := &MembershipService{Store: st, Now: fixedNow(testEpoch.Add(-8 * 24 * time.Hour))}
	_, err = stale.AddMember(ctx, owner.ID, project.ID, "stale@example.com")
	require.NoError(t, err)

	t.Run("owner leads the member list", func(t *testing.T) {
		view, err := svc.ListMembers(ctx, member.ID, project.ID)
		require.NoError(t, err)
		require.Equal(t, owner.ID, view.OwnerID)
		require.Len(t, view.Members, 2)
		require.Equal(t, owner.ID, view.Members[0].ID)
	})

	t.Run("invitation status is derived at read time", func(t *testing.T) {
		view, err := svc.ListMembers(ctx, owner.ID, project.ID)
		require.NoError(t, err)
		require.Len(t, view.Invitations, 2)

		statuses := map[string]domain.InvitationStatus{}
		for _, inv := range view.Invitations {
			statuses[inv.Email] = inv.Status
		}
		require.Equal(t, domain.InvitationPending, statuses["fresh@example.com"])
		require.Equal(t, domain.InvitationExpired, statuses["stale@example.com"])
	})

	t.Run("non-members cannot view the panel", func(t *testing.T) {
		_, err := svc.ListMembers(ctx, outsider.ID, project.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}
