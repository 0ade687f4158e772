package store

import (
	"context"
	"errors"

	"github.com/taskforge/taskforge/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and a transaction helper so multi-step mutations (task lifecycle
// transitions, invitation binding at registration) stay atomic.
type Store interface {
	Users() Users
	Projects() Projects
	Invitations() Invitations
	Categories() Categories
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by normalized (lowercase) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Projects interface {
	// GetProjectByID returns a project hydrated with its member ids and
	// invitations.
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjectsForUser returns projects the user owns or is a member of,
	// newest first.
	ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error)

	// ListProjects returns every project, newest first. Admin use only.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// CreateProject inserts a new project.
	CreateProject(ctx context.Context, p domain.Project) error

	// UpdateProjectStatus flips the project between active and completed.
	UpdateProjectStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error

	// AddMember records membership; adding an existing member is a no-op.
	AddMember(ctx context.Context, projectID, userID string) error

	// RemoveMember drops a stored member. Removing the owner is the service
	// layer's problem; the store just deletes the row if present.
	RemoveMember(ctx context.Context, projectID, userID string) error
}

type Invitations interface {
	// CreateInvitation appends a pending invitation to a project.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// ListProjectInvitations returns a project's invitations, oldest first.
	ListProjectInvitations(ctx context.Context, projectID string) ([]domain.Invitation, error)

	// ListInvitationsByEmail returns every invitation addressed to the
	// normalized email across all projects.
	ListInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error)

	// DeleteInvitationByToken removes the invitation with the given token.
	DeleteInvitationByToken(ctx context.Context, projectID, token string) error

	// DeleteInvitationsByEmail removes all invitations for an email on a
	// project, regardless of age.
	DeleteInvitationsByEmail(ctx context.Context, projectID, email string) error
}

type Categories interface {
	// GetCategoryByID returns a category by id.
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)

	// ListProjectCategories returns a project's categories, oldest first.
	ListProjectCategories(ctx context.Context, projectID string) ([]domain.Category, error)

	// CreateCategory inserts a new category.
	CreateCategory(ctx context.Context, c domain.Category) error

	// UpdateCategory mutates name and color.
	UpdateCategory(ctx context.Context, categoryID, name, color string) error

	// DeleteCategory removes the category and detaches it from every task
	// referencing it (per schema cascade).
	DeleteCategory(ctx context.Context, categoryID string) error
}

type Tasks interface {
	// GetTaskByID returns a task hydrated with category and watcher sets.
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)

	// ListProjectTasks returns a project's tasks, newest first.
	ListProjectTasks(ctx context.Context, projectID string) ([]domain.Task, error)

	// ListAssignedTasks returns every task assigned to the user across all
	// projects (input to efficiency scoring).
	ListAssignedTasks(ctx context.Context, userID string) ([]domain.Task, error)

	// CreateTask inserts a task with its category and watcher sets.
	CreateTask(ctx context.Context, t domain.Task) error

	// UpdateTask rewrites the mutable fields and replaces the category and
	// watcher sets.
	UpdateTask(ctx context.Context, t domain.Task) error

	// DetachMember clears the user from assignee and watcher positions on
	// every task in the project.
	DetachMember(ctx context.Context, projectID, userID string) error

	// CreateTaskEvent appends a history entry to a task's timeline.
	CreateTaskEvent(ctx context.Context, e domain.TaskEvent) error

	// ListTaskEvents returns a task's history, oldest first.
	ListTaskEvents(ctx context.Context, taskID string) ([]domain.TaskEvent, error)

	// CreateTaskComment appends a comment to a task.
	CreateTaskComment(ctx context.Context, c domain.TaskComment) error

	// ListTaskComments returns a task's comments, oldest first.
	ListTaskComments(ctx context.Context, taskID string) ([]domain.TaskComment, error)
}
