package http

import (
	"time"

	"github.com/taskforge/taskforge/internal/domain"
	"github.com/taskforge/taskforge/internal/service"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// ProjectResponse is the member-facing view of a project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	MemberIDs   []string  `json:"memberIds"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProjectResponse(p domain.Project) ProjectResponse {
	memberIDs := p.MemberIDs
	if memberIDs == nil {
		memberIDs = []string{}
	}
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		MemberIDs:   memberIDs,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

// InvitationResponse exposes an invitation with its read-time status. The
// token is included so managers can revoke; invitations are only ever shown
// to managers and members of the project.
type InvitationResponse struct {
	ProjectID string    `json:"projectId"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// MembersResponse is the membership panel.
type MembersResponse struct {
	OwnerID     string               `json:"ownerId"`
	Members     []UserResponse       `json:"members"`
	Invitations []InvitationResponse `json:"invitations"`
}

func toMembersResponse(view service.MembersView) MembersResponse {
	out := MembersResponse{
		OwnerID:     view.OwnerID,
		Members:     make([]UserResponse, 0, len(view.Members)),
		Invitations: make([]InvitationResponse, 0, len(view.Invitations)),
	}
	for _, member := range view.Members {
		out.Members = append(out.Members, toUserResponse(member))
	}
	for _, inv := range view.Invitations {
		out.Invitations = append(out.Invitations, InvitationResponse{
			ProjectID: inv.ProjectID,
			Email:     inv.Email,
			Token:     inv.Token,
			Status:    string(inv.Status),
			CreatedAt: inv.CreatedAt,
		})
	}
	return out
}

// CategoryResponse is a project task category.
type CategoryResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

func toCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Name:      c.Name,
		Color:     c.Color,
	}
}

func toCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

// TaskResponse is the full task view.
type TaskResponse struct {
	ID                   string     `json:"id"`
	ProjectID            string     `json:"projectId"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               string     `json:"status"`
	AwaitingConfirmation bool       `json:"awaitingConfirmation"`
	DueDate              *time.Time `json:"dueDate"`
	CategoryIDs          []string   `json:"categoryIds"`
	CreatorID            string     `json:"creatorId"`
	AssigneeID           string     `json:"assigneeId,omitempty"`
	WatcherIDs           []string   `json:"watcherIds"`
	CompletedAt          *time.Time `json:"completedAt"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func toTaskResponse(t domain.Task) TaskResponse {
	categoryIDs := t.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	watcherIDs := t.WatcherIDs
	if watcherIDs == nil {
		watcherIDs = []string{}
	}
	return TaskResponse{
		ID:                   t.ID,
		ProjectID:            t.ProjectID,
		Title:                t.Title,
		Description:          t.Description,
		Status:               string(t.Status),
		AwaitingConfirmation: t.AwaitingConfirmation,
		DueDate:              t.DueDate,
		CategoryIDs:          categoryIDs,
		CreatorID:            t.CreatorID,
		AssigneeID:           t.AssigneeID,
		WatcherIDs:           watcherIDs,
		CompletedAt:          t.CompletedAt,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// TaskEventResponse is one entry of a task's history timeline.
type TaskEventResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	ActorID   string    `json:"actorId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTaskEventResponses(events []domain.TaskEvent) []TaskEventResponse {
	out := make([]TaskEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, TaskEventResponse{
			ID:        e.ID,
			TaskID:    e.TaskID,
			ActorID:   e.ActorID,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// TaskCommentResponse is a comment left on a task.
type TaskCommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTaskCommentResponse(c domain.TaskComment) TaskCommentResponse {
	return TaskCommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func toTaskCommentResponses(comments []domain.TaskComment) []TaskCommentResponse {
	out := make([]TaskCommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toTaskCommentResponse(c))
	}
	return out
}

// TokenResponse is the credential pair returned by register and login.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}
