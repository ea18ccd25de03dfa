// Copyright (c) 2026 Study Partner. All rights reserved.

package tracking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
)

// Handler implements session tracking HTTP endpoints.
type Handler struct {
	trackingService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{trackingService: service}
}

// Routes returns a [chi.Router] configured with tracking routes.
//
// # Endpoints
//   - POST /start : Opens a new study session.
//   - POST /end   : Closes an open session.
//   - GET  /stats : Returns today/week/last-session statistics.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/start", handler.start)
		r.Post("/end", handler.end)
		r.Get("/stats", handler.stats)
	})

	return router
}

// # Request Payloads

type startSessionRequest struct {
	Path string `json:"path"`
}

type endSessionRequest struct {
	SessionID       int64  `json:"session_id"`
	DurationSeconds *int64 `json:"duration_seconds"`
}

/*
Start opens a new study session.

POST /api/session/start

Request:
  - Body: startSessionRequest (Path?)

Response:
  - 201: ActivitySession: Opened session with its ID
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// An empty body is fine: path is optional metadata.
	var input startSessionRequest
	_ = requestutil.DecodeJSON(request, &input)

	session, err := handler.trackingService.Start(request.Context(), userID, input.Path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
End closes an open study session.

POST /api/session/end

Request:
  - Body: endSessionRequest (SessionID, DurationSeconds?)

Response:
  - 200: ActivitySession: Closed session with its stored duration
  - 403: ErrForbidden: Session belongs to another user
  - 404: ErrNotFound: Unknown session id
  - 409: ErrConflict: Session already ended
*/
func (handler *Handler) end(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input endSessionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.SessionID <= 0 {
		respond.Error(writer, request, validate.RequiredError("session_id", "Must be a positive numeric id"))
		return
	}

	session, err := handler.trackingService.End(request.Context(), userID, input.SessionID, input.DurationSeconds)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Stats returns the authenticated user's study statistics.

GET /api/session/stats

Response:
  - 200: Stats: today_seconds, week_seconds, last_session_seconds
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.trackingService.Aggregate(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
