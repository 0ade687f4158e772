package http

import (
	"net/http"

	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/pkg/httpx"
)

type CategoriesHandler struct {
	CategoryService *service.CategoryService
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HandleList godoc
//
//	@Summary	List project categories
//	@Tags		Categories
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Project id"
//	@Success	200	{array}		CategoryResponse
//	@Failure	403	{object}	httpx.ErrorResponse	"Not a project member"
//	@Router		/v1/projects/{id}/categories [get].
func (h *CategoriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.CategoryService.ListCategories(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategoryResponses(categories))
}

// HandleCreate godoc
//
//	@Summary	Create a category
//	@Tags		Categories
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Project id"
//	@Param		request	body		categoryRequest	true	"Category details"
//	@Success	201		{object}	CategoryResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"Missing category name"
//	@Router		/v1/projects/{id}/categories [post].
func (h *CategoriesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "category name is required")
		return
	}

	category, err := h.CategoryService.CreateCategory(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), req.Name, req.Color)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// HandleUpdate godoc
//
//	@Summary	Rename or recolor a category
//	@Tags		Categories
//	@Security	BearerAuth
//	@Accept		json
//	@Param		id		path	string			true	"Category id"
//	@Param		request	body	categoryRequest	true	"New name and color"
//	@Success	204
//	@Failure	400	{object}	httpx.ErrorResponse	"Missing category name"
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/categories/{id} [put].
func (h *CategoriesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "category name is required")
		return
	}

	err := h.CategoryService.UpdateCategory(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), req.Name, req.Color)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary		Delete a category
//	@Description	Tasks referencing the category are detached and keep functioning without it.
//	@Tags			Categories
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Category id"
//	@Success		204
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/categories/{id} [delete].
func (h *CategoriesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.CategoryService.DeleteCategory(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
