package http

import (
	"net/http"
	"time"

	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/pkg/httpx"
)

type MembersHandler struct {
	MembershipService *service.MembershipService
}

type addMemberRequest struct {
	Email string `json:"email"`
}

// addMemberResponse reports which path the add took: a registered user was
// added directly, or an invitation now awaits registration.
type addMemberResponse struct {
	AddedUserID string              `json:"addedUserId,omitempty"`
	Invitation  *InvitationResponse `json:"invitation,omitempty"`
}

// HandleList godoc
//
//	@Summary		List project members and invitations
//	@Description	Returns the owner-led member list and every invitation with its derived status, expired ones included.
//	@Tags			Members
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Project id"
//	@Success		200	{object}	MembersResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Not a project member"
//	@Router			/v1/projects/{id}/members [get].
func (h *MembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.MembershipService.ListMembers(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMembersResponse(view))
}

// HandleAdd godoc
//
//	@Summary		Add a member by email
//	@Description	Adds a registered user immediately, or records a pending invitation for an unknown email. Owner or admin only.
//	@Tags			Members
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Project id"
//	@Param			request	body		addMemberRequest	true	"Email to add"
//	@Success		200		{object}	addMemberResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Blank email"
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Router			/v1/projects/{id}/members [post].
func (h *MembersHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.MembershipService.AddMember(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := addMemberResponse{AddedUserID: result.AddedUserID}
	if result.Invitation != nil {
		resp.Invitation = &InvitationResponse{
			ProjectID: result.Invitation.ProjectID,
			Email:     result.Invitation.Email,
			Token:     result.Invitation.Token,
			Status:    string(result.Invitation.StatusAt(time.Now().UTC())),
			CreatedAt: result.Invitation.CreatedAt,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRemove godoc
//
//	@Summary		Remove a member
//	@Description	Removes the user from the project and detaches them from assignee and watcher positions on its tasks. Removing the owner is a no-op.
//	@Tags			Members
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Project id"
//	@Param			userId	path	string	true	"User id to remove"
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Router			/v1/projects/{id}/members/{userId} [delete].
func (h *MembersHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.MembershipService.RemoveMember(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeInvitation godoc
//
//	@Summary		Revoke an invitation
//	@Description	Deletes the invitation with the given token, pending or expired. Owner or admin only.
//	@Tags			Members
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Project id"
//	@Param			token	path	string	true	"Invitation token"
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown token"
//	@Router			/v1/projects/{id}/invitations/{token} [delete].
func (h *MembersHandler) HandleRevokeInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.MembershipService.RevokeInvitation(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
