package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/httpx"
	"github.com/taskforge/taskforge/pkg/slogx"

	_ "github.com/taskforge/taskforge/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService       *service.UserService
	TokenService      *service.TokenService
	ProjectService    *service.ProjectService
	MembershipService *service.MembershipService
	CategoryService   *service.CategoryService
	TaskService       *service.TaskService
	EfficiencyService *service.EfficiencyService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProjects()
	r.registerMembers()
	r.registerCategories()
	r.registerTasks()
	r.registerEfficiency()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TaskForge API
//	@version		0.1.0
//	@description	Multi-tenant project and task management service: projects with
//	@description	owner-led membership and time-bounded email invitations, a task
//	@description	lifecycle with a dual-control completion handshake, per-task
//	@description	visibility, and a productivity score over assigned-task history.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}

	// Credential endpoints are public and brute-forceable, so they carry the
	// strict IP limit.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/users/me",
		r.secured(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users",
		r.secured(http.HandlerFunc(h.HandleListUsers), httpx.LenientLimit))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}

	r.Mux.Handle("GET /v1/projects",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/projects",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/projects/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/projects/{id}/status",
		r.secured(http.HandlerFunc(h.HandleSetStatus), httpx.ModerateLimit))
}

func (r *Router) registerMembers() {
	h := &MembersHandler{MembershipService: r.MembershipService}

	r.Mux.Handle("GET /v1/projects/{id}/members",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/projects/{id}/members",
		r.secured(http.HandlerFunc(h.HandleAdd), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/projects/{id}/members/{userId}",
		r.secured(http.HandlerFunc(h.HandleRemove), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/projects/{id}/invitations/{token}",
		r.secured(http.HandlerFunc(h.HandleRevokeInvitation), httpx.ModerateLimit))
}

func (r *Router) registerCategories() {
	h := &CategoriesHandler{CategoryService: r.CategoryService}

	r.Mux.Handle("GET /v1/projects/{id}/categories",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/projects/{id}/categories",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/categories/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/categories/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.Mux.Handle("GET /v1/projects/{id}/tasks",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/projects/{id}/tasks",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/tasks/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/tasks/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/tasks/{id}/status",
		r.secured(http.HandlerFunc(h.HandleSetStatus), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/{id}/done",
		r.secured(http.HandlerFunc(h.HandleMarkDone), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/{id}/confirm",
		r.secured(http.HandlerFunc(h.HandleConfirm), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/{id}/rework",
		r.secured(http.HandlerFunc(h.HandleRework), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/tasks/{id}/history",
		r.secured(http.HandlerFunc(h.HandleHistory), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/tasks/{id}/comments",
		r.secured(http.HandlerFunc(h.HandleListComments), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/tasks/{id}/comments",
		r.secured(http.HandlerFunc(h.HandleAddComment), httpx.ModerateLimit))
}

func (r *Router) registerEfficiency() {
	h := &EfficiencyHandler{
		EfficiencyService: r.EfficiencyService,
		UserService:       r.UserService,
	}

	r.Mux.Handle("GET /v1/users/me/efficiency",
		r.secured(http.HandlerFunc(h.HandleOwn), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users/{id}/efficiency",
		r.secured(http.HandlerFunc(h.HandleByUser), httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll these frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
