package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := &TokenService{
		Secret: []byte("test-secret"),
		Issuer: "taskforge-test",
		TTL:    time.Hour,
		Now:    fixedNow(testEpoch),
	}

	token, expiresIn, err := svc.IssueToken("user-123")
	require.NoError(t, err)
	require.Equal(t, int64(3600), expiresIn)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestTokenRejection(t *testing.T) {
	t.Parallel()

	svc := &TokenService{
		Secret: []byte("test-secret"),
		Issuer: "taskforge-test",
		TTL:    time.Hour,
		Now:    fixedNow(testEpoch),
	}

	t.Run("expired token", func(t *testing.T) {
		token, _, err := svc.IssueToken("user-123")
		require.NoError(t, err)

		later := *svc
		later.Now = fixedNow(testEpoch.Add(2 * time.Hour))
		_, err = later.VerifyToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := *svc
		other.Secret = []byte("different-secret")
		token, _, err := other.IssueToken("user-123")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := *svc
		other.Issuer = "someone-else"
		token, _, err := other.IssueToken("user-123")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
