package http

import (
	"net/http"

	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/pkg/httpx"
)

type EfficiencyHandler struct {
	EfficiencyService *service.EfficiencyService
	UserService       *service.UserService
}

// HandleOwn godoc
//
//	@Summary		Get your efficiency score
//	@Description	Scores the caller's assigned-task history across every project. With no assigned tasks the score is null and the level reads "Insufficient data".
//	@Tags			Efficiency
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.EfficiencyReport
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/v1/users/me/efficiency [get].
func (h *EfficiencyHandler) HandleOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.EfficiencyService.Report(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, report)
}

// HandleByUser godoc
//
//	@Summary		Get a user's efficiency score
//	@Description	Admin view of any user's score.
//	@Tags			Efficiency
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	domain.EfficiencyReport
//	@Failure		403	{object}	httpx.ErrorResponse	"Caller is not an admin"
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown user"
//	@Router			/v1/users/{id}/efficiency [get].
func (h *EfficiencyHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := h.UserService.GetUser(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	userID := r.PathValue("id")
	if !actor.IsAdmin && actor.ID != userID {
		writeServiceError(w, r, service.ErrUnauthorized)
		return
	}

	report, err := h.EfficiencyService.Report(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, report)
}
