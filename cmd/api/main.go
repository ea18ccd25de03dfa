// Copyright (c) 2026 Study Partner. All rights reserved.

// Command api is the entry point for the Study Partner HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect to object storage and outbound services.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studypartner/api/internal/api"
	"github.com/studypartner/api/internal/platform/config"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/email"
	"github.com/studypartner/api/internal/platform/llm"
	"github.com/studypartner/api/internal/platform/migration"
	"github.com/studypartner/api/internal/platform/pdftext"
	pgstore "github.com/studypartner/api/internal/platform/postgres"
	redisstore "github.com/studypartner/api/internal/platform/redis"
	"github.com/studypartner/api/internal/platform/sec"
	"github.com/studypartner/api/internal/platform/storage"
	"github.com/studypartner/api/internal/study/ai"
	"github.com/studypartner/api/internal/study/document"
	"github.com/studypartner/api/internal/study/goal"
	"github.com/studypartner/api/internal/study/quiz"
	"github.com/studypartner/api/internal/tracking"
	"github.com/studypartner/api/internal/users/account"
	"github.com/studypartner/api/internal/users/auth"
	"github.com/studypartner/api/internal/users/google"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "studypartner"))
	slog.SetDefault(log)

	log.Info("[StudyPartner] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "studypartner"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Outbound Services ──────────────────────────────────────────────
	objectStore, err := storage.NewS3Store(startupCtx, storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	must(log, err, "initialize object storage")

	mailer := email.NewMailer(email.Config{
		Host:           cfg.SMTPHost,
		Port:           cfg.SMTPPort,
		User:           cfg.SMTPUser,
		Pass:           cfg.SMTPPass,
		From:           cfg.SMTPFrom,
		BackendBaseURL: cfg.BackendBaseURL,
		FrontendURL:    cfg.FrontendURL,
	})

	completer := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	tokens := sec.NewTokenCodec(cfg.SessionSecret)

	googleProvider := google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	if !googleProvider.Configured() {
		log.Warn("google oauth not configured; /api/auth/google routes will reject logins")
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	secureCookies := cfg.IsProduction()

	userRepository := account.NewUserRepository(pool)
	accountService := account.NewService(userRepository)

	authService := auth.NewService(userRepository, accountService, tokens, mailer)
	authHandler := auth.NewHandler(authService, cfg.FrontendURL, secureCookies)

	accountHandler := account.NewHandler(accountService, authHandler.RegisterEndpoint(), authHandler.LoginEndpoint())

	googleService := google.NewService(userRepository, accountService, googleProvider, google.NewStateStore(rdb), tokens)
	googleHandler := google.NewHandler(googleService, cfg.FrontendURL, secureCookies)

	sessionRepository := tracking.NewSessionRepository(pool)
	trackingHandler := tracking.NewHandler(tracking.NewService(sessionRepository))

	fileRepository := document.NewPDFRepository(pool)
	documentService := document.NewService(fileRepository, objectStore, pdftext.NewExtractor())
	documentHandler := document.NewHandler(documentService)

	aiService := ai.NewService(documentService, fileRepository, completer)
	aiHandler := ai.NewHandler(aiService)

	quizRepository := quiz.NewQuizRepository(pool)
	quizHandler := quiz.NewHandler(quiz.NewService(quizRepository, documentService))

	goalRepository := goal.NewGoalRepository(pool)
	goalHandler := goal.NewHandler(goal.NewService(goalRepository))

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   api.NewMetricsHandler(),
		Auth:      authHandler,
		Google:    googleHandler,
		Account:   accountHandler,
		Tracking:  trackingHandler,
		Document:  documentHandler,
		AI:        aiHandler,
		Quiz:      quizHandler,
		Goal:      goalHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, tokens, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
