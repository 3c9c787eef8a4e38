package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/infrastructure/http/handler"
	"github.com/tasknest/tasknest/infrastructure/http/middleware"
	"github.com/tasknest/tasknest/infrastructure/http/response"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

// Dependencies collects what the HTTP surface needs. Metrics, DB and
// StaticDir are optional.
type Dependencies struct {
	Auth   inbound.AuthUseCase
	Todos  inbound.TodoUseCase
	Upload inbound.UploadUseCase
	Logger logger.Logger

	Cookie         handler.CookieConfig
	UploadMaxBytes int64
	StaticDir      string
	DB             handler.Pinger

	Observer       middleware.HTTPObserver
	MetricsHandler http.Handler
}

// New builds the router with every route and the request middleware chain.
// CORS is applied by the caller around the returned handler.
func New(deps Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route")
	})
	r.Use(middleware.CorrelationIDMiddleware)
	// Recovery must stay inside RequestLogger so panics are observed as 500s.
	r.Use(middleware.RequestLogger(deps.Logger, deps.Observer))
	r.Use(middleware.Recovery(deps.Logger))

	health := handler.NewHealthHandler(deps.DB, deps.Logger)
	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", health.Ready).Methods(http.MethodGet)

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods(http.MethodGet)
	}
	if deps.StaticDir != "" {
		r.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))),
		).Methods(http.MethodGet, http.MethodHead)
	}

	api := r.PathPrefix("/api").Subrouter()

	auth := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	api.HandleFunc("/auth/registration", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodGet)

	requireAuth := middleware.NewAuthMiddleware(deps.Auth).RequireAuth

	protected := api.NewRoute().Subrouter()
	protected.Use(requireAuth)

	todos := handler.NewTodoHandler(deps.Todos)
	protected.HandleFunc("/todos", todos.Create).Methods(http.MethodPost)
	protected.HandleFunc("/todos", todos.List).Methods(http.MethodGet)
	protected.HandleFunc("/todos/{id}", todos.Get).Methods(http.MethodGet)
	protected.HandleFunc("/todos/{id}", todos.Update).Methods(http.MethodPut)
	protected.HandleFunc("/todos/{id}", todos.Delete).Methods(http.MethodDelete)

	uploads := handler.NewUploadHandler(deps.Upload, deps.UploadMaxBytes)
	protected.HandleFunc("/uploads", uploads.Upload).Methods(http.MethodPost)

	return r
}
