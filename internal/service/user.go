package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/cryptox"
	"github.com/taskforge/taskforge/pkg/idx"
	"github.com/taskforge/taskforge/pkg/slogx"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRegistration = errors.New("name, email and password are required")
)

type UserService struct {
	Store store.Store

	// Memberships binds pending invitations when a new account registers.
	Memberships *MembershipService

	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Register creates a new account and, in the same transaction, joins every
// project holding a live invitation for the email. Invitations that expired
// before registration do not bind and stay on their projects as expired.
func (s *UserService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return domain.User{}, ErrInvalidRegistration
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Email is unique, case-insensitively.
		_, err := tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 2. Create the account.
		now := s.now()
		user = domain.User{
			ID:           idx.New().String(),
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}

		// 3. Consume live invitations addressed to this email.
		return s.Memberships.BindPendingInvitations(ctx, tx, user)
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Authenticate verifies credentials and returns the account. The failure is
// deliberately identical for an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns every account, oldest first. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actorID string) ([]domain.User, error) {
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, ErrUnauthorized
	}
	return s.Store.Users().ListUsers(ctx)
}
