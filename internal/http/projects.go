package http

import (
	"net/http"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/pkg/httpx"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type projectStatusRequest struct {
	Status string `json:"status"`
}

// HandleList godoc
//
//	@Summary		List projects
//	@Description	Returns the caller's owned and joined projects. Admins see every project.
//	@Tags			Projects
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		ProjectResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/v1/projects [get].
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.ProjectService.ListProjects(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponses(projects))
}

// HandleCreate godoc
//
//	@Summary	Create a project
//	@Tags		Projects
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createProjectRequest	true	"Project details"
//	@Success	201		{object}	ProjectResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"Missing project name"
//	@Router		/v1/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "project name is required")
		return
	}

	project, err := h.ProjectService.CreateProject(ctx, httpx.UserIDFromContext(ctx), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(project))
}

// HandleGet godoc
//
//	@Summary	Get a project
//	@Tags		Projects
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Project id"
//	@Success	200	{object}	ProjectResponse
//	@Failure	403	{object}	httpx.ErrorResponse	"Not a project member"
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/projects/{id} [get].
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, err := h.ProjectService.GetProject(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

// HandleSetStatus godoc
//
//	@Summary		Set project status
//	@Description	Flips a project between active and completed. Owner or admin only.
//	@Tags			Projects
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	string					true	"Project id"
//	@Param			request	body	projectStatusRequest	true	"New status"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse	"Unknown status"
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Router			/v1/projects/{id}/status [put].
func (h *ProjectsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req projectStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.ProjectService.SetProjectStatus(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), domain.ProjectStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
