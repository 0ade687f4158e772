package http

import (
	"net/http"
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/pkg/httpx"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	CategoryIDs []string   `json:"categoryIds"`
	AssigneeID  string     `json:"assigneeId"`
	WatcherIDs  []string   `json:"watcherIds"`
}

// updateTaskRequest is a patch: absent fields are left untouched. A present
// null dueDate clears the deadline.
type updateTaskRequest struct {
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	CategoryIDs  *[]string  `json:"categoryIds"`
	AssigneeID   *string    `json:"assigneeId"`
	WatcherIDs   *[]string  `json:"watcherIds"`
	Status       *string    `json:"status"`
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

type addCommentRequest struct {
	Body string `json:"body"`
}

// HandleList godoc
//
//	@Summary		List project tasks
//	@Description	Returns the project's tasks the caller may see, newest first. Non-admins see only tasks they created, are assigned to, or watch.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Project id"
//	@Success		200	{array}		TaskResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/projects/{id}/tasks [get].
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.TaskService.ListProjectTasks(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponses(tasks))
}

// HandleCreate godoc
//
//	@Summary		Create a task
//	@Description	Creates an open task with the caller as creator. Categories must belong to the project; assignee and watchers must be actual project members.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Project id"
//	@Param			request	body		createTaskRequest	true	"Task details"
//	@Success		201		{object}	TaskResponse
//	@Failure		403		{object}	httpx.ErrorResponse	"Not a project member"
//	@Failure		422		{object}	httpx.ErrorResponse	"Invalid category or member reference"
//	@Router			/v1/projects/{id}/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.TaskService.CreateTask(ctx, httpx.UserIDFromContext(ctx), service.CreateTaskInput{
		ProjectID:   r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryIDs: req.CategoryIDs,
		AssigneeID:  req.AssigneeID,
		WatcherIDs:  req.WatcherIDs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

// HandleGet godoc
//
//	@Summary		Get a task
//	@Description	A task the caller may not see is indistinguishable from a missing one.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{object}	TaskResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/tasks/{id} [get].
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := h.TaskService.GetTask(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleUpdate godoc
//
//	@Summary		Edit a task
//	@Description	Patches the task's editable fields. Creator only. An explicit status change away from done cancels a pending confirmation.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Task id"
//	@Param			request	body		updateTaskRequest	true	"Fields to change"
//	@Success		200		{object}	TaskResponse
//	@Failure		403		{object}	httpx.ErrorResponse	"Not the creator"
//	@Failure		422		{object}	httpx.ErrorResponse	"Invalid category or member reference"
//	@Router			/v1/tasks/{id} [patch].
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := service.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		CategoryIDs:  req.CategoryIDs,
		AssigneeID:   req.AssigneeID,
		WatcherIDs:   req.WatcherIDs,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		in.Status = &status
	}

	task, err := h.TaskService.UpdateTask(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleSetStatus godoc
//
//	@Summary		Set task status directly
//	@Description	Board-style direct move by the creator. Moving away from done cancels a pending confirmation; moving to done stamps completion without entering the handshake.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Task id"
//	@Param			request	body		taskStatusRequest	true	"New status"
//	@Success		200		{object}	TaskResponse
//	@Failure		403		{object}	httpx.ErrorResponse	"Not the creator"
//	@Failure		409		{object}	httpx.ErrorResponse	"Unknown status"
//	@Router			/v1/tasks/{id}/status [put].
func (h *TasksHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req taskStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.TaskService.SetStatus(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), domain.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleMarkDone godoc
//
//	@Summary		Mark a task done
//	@Description	The assignee reports the work finished. The task becomes done and awaits the creator's confirmation.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{object}	TaskResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Not the assignee"
//	@Failure		409	{object}	httpx.ErrorResponse	"Task already done or closed"
//	@Router			/v1/tasks/{id}/done [post].
func (h *TasksHandler) HandleMarkDone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := h.TaskService.MarkDone(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleConfirm godoc
//
//	@Summary		Confirm completed work
//	@Description	The creator accepts done work awaiting confirmation; the task closes.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{object}	TaskResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Not the creator"
//	@Failure		409	{object}	httpx.ErrorResponse	"Task is not awaiting confirmation"
//	@Router			/v1/tasks/{id}/confirm [post].
func (h *TasksHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := h.TaskService.ConfirmCompletion(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleRework godoc
//
//	@Summary		Send a task back for rework
//	@Description	The creator rejects done work awaiting confirmation; the task returns to in progress and its completion timestamp is cleared.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{object}	TaskResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Not the creator"
//	@Failure		409	{object}	httpx.ErrorResponse	"Task is not awaiting confirmation"
//	@Router			/v1/tasks/{id}/rework [post].
func (h *TasksHandler) HandleRework(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := h.TaskService.RequestRework(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// HandleHistory godoc
//
//	@Summary		Get a task's history
//	@Description	Returns the task's event timeline, oldest first. Visible under the same rule as the task itself.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{array}		TaskEventResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/tasks/{id}/history [get].
func (h *TasksHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.TaskService.TaskHistory(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskEventResponses(events))
}

// HandleListComments godoc
//
//	@Summary		List a task's comments
//	@Description	Returns the task's comments, oldest first. Visible under the same rule as the task itself.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{array}		TaskCommentResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/tasks/{id}/comments [get].
func (h *TasksHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comments, err := h.TaskService.ListComments(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskCommentResponses(comments))
}

// HandleAddComment godoc
//
//	@Summary		Comment on a task
//	@Description	Leaves a note on the task. Anyone who can see the task may comment.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Task id"
//	@Param			request	body		addCommentRequest	true	"Comment body"
//	@Success		201		{object}	TaskCommentResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Empty comment body"
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/tasks/{id}/comments [post].
func (h *TasksHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.TaskService.AddComment(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTaskCommentResponse(comment))
}
