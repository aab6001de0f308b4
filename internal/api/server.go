// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/reviewboard/internal/core/comment"
	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/config"
	"github.com/taibuivan/reviewboard/internal/platform/constants"
	"github.com/taibuivan/reviewboard/internal/platform/metrics"
	"github.com/taibuivan/reviewboard/internal/platform/middleware"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/internal/users/account"
	"github.com/taibuivan/reviewboard/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when postgres and redis answer.
	Readiness http.HandlerFunc

	Auth       *auth.Handler
	Users      *account.Handler
	Categories *taxonomy.Handler
	Genres     *taxonomy.Handler
	Titles     *title.Handler
	Reviews    *review.Handler
	Comments   *comment.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	verifier middleware.TokenVerifier,
	registry *metrics.Registry,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Metrics(registry))
	r.Use(middleware.CORS(cfg.CORSOrigins()))
	r.Use(middleware.RateLimit(context))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Authenticate(verifier))

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", registry.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/genres", h.Genres.Routes())

		api.Route("/titles", func(titles chi.Router) {
			titles.Mount("/", h.Titles.Routes())
			titles.Mount("/{titleID}/reviews", h.Reviews.Routes())
			titles.Mount("/{titleID}/reviews/{reviewID}/comments", h.Comments.Routes())
		})
	})

	// Registered last so chi propagates them into every mounted subrouter.
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

func notFound(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.NotFound("Page"))
}

func methodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.MethodNotAllowed(request.Method))
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
