package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInvitationExpiry(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)
	inv := Invitation{
		ProjectID: "p1",
		Email:     "invitee@example.com",
		CreatedAt: created,
	}

	t.Run("fresh invitation is pending", func(t *testing.T) {
		require.False(t, inv.ExpiredAt(created))
		require.Equal(t, InvitationPending, inv.StatusAt(created.Add(6*24*time.Hour)))
	})

	t.Run("expires at exactly seven days", func(t *testing.T) {
		boundary := created.Add(InvitationTTL)
		require.False(t, inv.ExpiredAt(boundary.Add(-time.Second)))
		require.True(t, inv.ExpiredAt(boundary))
		require.Equal(t, InvitationExpired, inv.StatusAt(boundary))
	})

	t.Run("stays expired rather than disappearing", func(t *testing.T) {
		require.Equal(t, InvitationExpired, inv.StatusAt(created.Add(90*24*time.Hour)))
	})
}
