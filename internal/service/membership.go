package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/cryptox"
	"github.com/taskforge/taskforge/pkg/slogx"
)

var ErrInvalidEmail = errors.New("invalid email address")

// MembershipService manages project membership and the invitation lifecycle.
// Invitation mutations for a project run inside a transaction, so concurrent
// adds cannot create duplicate invitations and revocations are never lost.
type MembershipService struct {
	Store store.Store

	// Now is injectable for tests; defaults to time.Now UTC.
	Now func() time.Time
}

func (s *MembershipService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// AddMemberResult reports which path AddMember took: an existing account was
// added directly, or an invitation is pending for the email.
type AddMemberResult struct {
	AddedUserID string
	Invitation  *domain.Invitation
}

// InvitationView decorates an invitation with its read-time status.
type InvitationView struct {
	domain.Invitation
	Status domain.InvitationStatus
}

// MembersView is the project membership panel: owner, members, and every
// invitation including expired ones still awaiting revocation.
type MembersView struct {
	OwnerID     string
	Members     []domain.User
	Invitations []InvitationView
}

// AddMember adds a registered user to the project by email, or records a
// pending invitation when no account exists yet. Re-inviting an email that
// already has an invitation on the project is a no-op and does not refresh
// its creation time, even if the invitation has expired; revoke it first to
// re-issue.
func (s *MembershipService) AddMember(ctx context.Context, actorID, projectID, email string) (AddMemberResult, error) {
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" {
		return AddMemberResult{}, ErrInvalidEmail
	}

	var result AddMemberResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Only the owner or an admin manages membership.
		actor, project, err := requireManager(ctx, tx, actorID, projectID)
		if err != nil {
			return err
		}

		// 2. An existing account joins immediately; any invitation for the
		// email on this project is cleaned up regardless of its age.
		user, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if user.ID != project.OwnerID {
				if err := tx.Projects().AddMember(ctx, project.ID, user.ID); err != nil {
					return err
				}
			}
			if err := tx.Invitations().DeleteInvitationsByEmail(ctx, project.ID, email); err != nil {
				return err
			}
			result.AddedUserID = user.ID

			log.Info("project member added",
				slog.String("project_id", project.ID),
				slog.String("user_id", user.ID),
				slog.String("actor_id", actor.ID),
			)
			return nil

		case errors.Is(err, store.ErrNotFound):
			// 3. No account: invite, unless an invitation already exists.
			for _, inv := range project.Invitations {
				if inv.Email == email {
					existing := inv
					result.Invitation = &existing
					return nil
				}
			}

			token, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return err
			}
			invitation := domain.Invitation{
				ProjectID: project.ID,
				Email:     email,
				Token:     token,
				CreatedAt: s.now(),
			}
			if err := tx.Invitations().CreateInvitation(ctx, invitation); err != nil {
				return err
			}
			result.Invitation = &invitation

			log.Info("project invitation created",
				slog.String("project_id", project.ID),
				slog.String("email", email),
				slog.String("actor_id", actor.ID),
			)
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return AddMemberResult{}, err
	}
	return result, nil
}

// RemoveMember removes a user from the project and detaches them from
// assignee and watcher positions on the project's tasks. The owner is exempt
// from removal: the call is a no-op regardless of actor.
func (s *MembershipService) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, project, err := requireManager(ctx, tx, actorID, projectID)
		if err != nil {
			return err
		}

		if userID == project.OwnerID {
			return nil
		}

		if err := tx.Projects().RemoveMember(ctx, project.ID, userID); err != nil {
			return err
		}
		if err := tx.Tasks().DetachMember(ctx, project.ID, userID); err != nil {
			return err
		}

		log.Info("project member removed",
			slog.String("project_id", project.ID),
			slog.String("user_id", userID),
			slog.String("actor_id", actor.ID),
		)
		return nil
	})
}

// RevokeInvitation removes the invitation with the given token, pending or
// expired.
func (s *MembershipService) RevokeInvitation(ctx context.Context, actorID, projectID, token string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, project, err := requireManager(ctx, tx, actorID, projectID)
		if err != nil {
			return err
		}

		if err := tx.Invitations().DeleteInvitationByToken(ctx, project.ID, token); err != nil {
			return err
		}

		log.Info("project invitation revoked",
			slog.String("project_id", project.ID),
			slog.String("actor_id", actor.ID),
		)
		return nil
	})
}

// ListMembers returns the membership panel for a project. Any member
// (admins included) may view it.
func (s *MembershipService) ListMembers(ctx context.Context, actorID, projectID string) (MembersView, error) {
	var view MembersView
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		project, err := tx.Projects().GetProjectByID(ctx, projectID)
		if err != nil {
			return err
		}
		if !domain.IsMember(actor, project) {
			return ErrUnauthorized
		}

		view.OwnerID = project.OwnerID

		owner, err := tx.Users().GetUserByID(ctx, project.OwnerID)
		if err != nil {
			return err
		}
		view.Members = append(view.Members, owner)
		for _, memberID := range project.MemberIDs {
			member, err := tx.Users().GetUserByID(ctx, memberID)
			if err != nil {
				return err
			}
			view.Members = append(view.Members, member)
		}

		now := s.now()
		for _, inv := range project.Invitations {
			view.Invitations = append(view.Invitations, InvitationView{
				Invitation: inv,
				Status:     inv.StatusAt(now),
			})
		}
		return nil
	})
	if err != nil {
		return MembersView{}, err
	}
	return view, nil
}

// BindPendingInvitations attaches a freshly registered user to every project
// holding a live invitation for their email, consuming those invitations.
// Expired invitations are left in place: they no longer bind, but remain
// inspectable until revoked. Runs inside the registration transaction.
func (s *MembershipService) BindPendingInvitations(ctx context.Context, tx store.Tx, user domain.User) error {
	log := slogx.FromContext(ctx)

	invitations, err := tx.Invitations().ListInvitationsByEmail(ctx, normalizeEmail(user.Email))
	if err != nil {
		return err
	}

	now := s.now()
	for _, inv := range invitations {
		if inv.ExpiredAt(now) {
			continue
		}
		if err := tx.Projects().AddMember(ctx, inv.ProjectID, user.ID); err != nil {
			return err
		}
		if err := tx.Invitations().DeleteInvitationsByEmail(ctx, inv.ProjectID, inv.Email); err != nil {
			return err
		}

		log.Info("invitation bound at registration",
			slog.String("project_id", inv.ProjectID),
			slog.String("user_id", user.ID),
		)
	}
	return nil
}

// requireManager loads the actor and project and enforces the owner-or-admin
// rule shared by all membership mutations.
func requireManager(ctx context.Context, tx store.Tx, actorID, projectID string) (domain.User, domain.Project, error) {
	actor, err := tx.Users().GetUserByID(ctx, actorID)
	if err != nil {
		return domain.User{}, domain.Project{}, err
	}
	project, err := tx.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		return domain.User{}, domain.Project{}, err
	}
	if !domain.IsOwnerOrAdmin(actor, project) {
		return domain.User{}, domain.Project{}, ErrUnauthorized
	}
	return actor, project, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
