package service

import (
	"context"
	"testing"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/stretchr/testify/require"
)

func newUserService(st *MembershipService) *UserService {
	return &UserService{Store: st.Store, Memberships: st, Now: st.Now}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	members := &MembershipService{Store: st, Now: fixedNow(testEpoch)}
	svc := newUserService(members)

	t.Run("registers with a normalized email", func(t *testing.T) {
		user, err := svc.Register(ctx, "Dana", "  Dana@Example.COM ", "correct horse")
		require.NoError(t, err)
		require.Equal(t, "dana@example.com", user.Email)
		require.NotEmpty(t, user.ID)
		require.NotEqual(t, "correct horse", user.PasswordHash)
	})

	t.Run("rejects duplicate emails case-insensitively", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other", "DANA@example.com", "another pass")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects incomplete registrations", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "x@example.com", "pass")
		require.ErrorIs(t, err, ErrInvalidRegistration)
		_, err = svc.Register(ctx, "X", "x@example.com", "")
		require.ErrorIs(t, err, ErrInvalidRegistration)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	members := &MembershipService{Store: st, Now: fixedNow(testEpoch)}
	svc := newUserService(members)

	registered, err := svc.Register(ctx, "Lee", "lee@example.com", "open sesame")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "LEE@example.com", "open sesame")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "lee@example.com", "open says me")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails identically", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "open sesame")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	members := &MembershipService{Store: st, Now: fixedNow(testEpoch)}
	svc := newUserService(members)

	admin := seedUser(t, st, "admin", true)
	alice := seedUser(t, st, "alice", false)
	bob := seedUser(t, st, "bob", false)

	t.Run("admin sees every account", func(t *testing.T) {
		users, err := svc.ListUsers(ctx, admin.ID)
		require.NoError(t, err)
		require.Len(t, users, 3)

		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		require.ElementsMatch(t, []string{admin.ID, alice.ID, bob.ID}, ids)
	})

	t.Run("plain users may not list accounts", func(t *testing.T) {
		_, err := svc.ListUsers(ctx, alice.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRegisterBindsPendingInvitations(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	owner := seedUser(t, st, "owner", false)
	invited := seedProject(t, st, owner.ID)
	lapsed := seedProject(t, st, owner.ID)

	inviter := &MembershipService{Store: st, Now: fixedNow(testEpoch)}
	_, err := inviter.AddMember(ctx, owner.ID, invited.ID, "joiner@example.com")
	require.NoError(t, err)

	early := &MembershipService{Store: st, Now: fixedNow(testEpoch.Add(-8 * 24 * time.Hour))}
	_, err = early.AddMember(ctx, owner.ID, lapsed.ID, "joiner@example.com")
	require.NoError(t, err)

	// Registration happens six days after the live invitation was sent.
	registerAt := testEpoch.Add(6 * 24 * time.Hour)
	members := &MembershipService{Store: st, Now: fixedNow(registerAt)}
	svc := newUserService(members)

	user, err := svc.Register(ctx, "Joiner", "joiner@example.com", "walrus staple")
	require.NoError(t, err)

	t.Run("live invitation binds and is consumed", func(t *testing.T) {
		got, err := st.Projects().GetProjectByID(ctx, invited.ID)
		require.NoError(t, err)
		require.Contains(t, got.MemberIDs, user.ID)
		require.Empty(t, got.Invitations)
	})

	t.Run("expired invitation does not bind and stays listed", func(t *testing.T) {
		got, err := st.Projects().GetProjectByID(ctx, lapsed.ID)
		require.NoError(t, err)
		require.NotContains(t, got.MemberIDs, user.ID)
		require.Len(t, got.Invitations, 1)
		require.Equal(t, domain.InvitationExpired, got.Invitations[0].StatusAt(registerAt))
	})
}
