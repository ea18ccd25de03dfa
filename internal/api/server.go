// Copyright (c) 2026 Study Partner. All rights reserved.

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

	"github.com/studypartner/api/internal/platform/config"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/middleware"
	"github.com/studypartner/api/internal/study/ai"
	"github.com/studypartner/api/internal/study/document"
	"github.com/studypartner/api/internal/study/goal"
	"github.com/studypartner/api/internal/study/quiz"
	"github.com/studypartner/api/internal/tracking"
	"github.com/studypartner/api/internal/users/account"
	"github.com/studypartner/api/internal/users/auth"
	"github.com/studypartner/api/internal/users/google"
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
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus registry at /metrics.
	Metrics http.Handler

	// Auth handles password authentication, email verification, and resets.
	Auth *auth.Handler

	// Google handles the Google OAuth sign-in flow.
	Google *google.Handler

	// Account serves the user profile routes.
	Account *account.Handler

	// Tracking records study sessions and serves time statistics.
	Tracking *tracking.Handler

	// Document handles PDF upload, listing, download, and deletion.
	Document *document.Handler

	// AI serves summaries, document chat, and quiz generation.
	AI *ai.Handler

	// Quiz stores quiz attempts and serves per-file history.
	Quiz *quiz.Handler

	// Goal manages study goals and their statistics.
	Goal *goal.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes and metrics for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	// # Application API
	// Domain-specific route groups. The SPA talks to /api/*.
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth/google", h.Google.Routes())
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/session", h.Tracking.Routes())
		api.Mount("/files", h.Document.Routes())
		api.Mount("/ai", h.AI.Routes())
		api.Mount("/quiz", h.Quiz.Routes())
		api.Mount("/goals", h.Goal.Routes())
	})

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

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
