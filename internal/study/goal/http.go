// Copyright (c) 2026 Study Partner. All rights reserved.

package goal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
)

// Handler implements goal HTTP endpoints.
type Handler struct {
	goalService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{goalService: service}
}

// Routes returns a [chi.Router] configured with goal routes.
//
// # Endpoints
//   - POST   /       : Creates a goal.
//   - GET    /       : Lists the user's goals.
//   - GET    /stats  : Goal statistics for the dashboard.
//   - GET    /{id}   : Returns one goal.
//   - PATCH  /{id}   : Partially updates a goal.
//   - DELETE /{id}   : Deletes a goal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Get("/", handler.list)
		r.Get("/stats", handler.stats)
		r.Get("/{id}", handler.get)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

// # Request Payloads

type createGoalRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date"`
}

type updateGoalRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
}

/*
Create persists a new goal.

POST /api/goals

Request:
  - Body: createGoalRequest (Name, Description?, DueDate YYYY-MM-DD)

Response:
  - 201: Goal: Created goal
  - 400: ErrInvalidJSON: Bad input or malformed due date
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createGoalRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Required(FieldDueDate, input.DueDate).
		Date(FieldDueDate, input.DueDate)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	goal, err := handler.goalService.Create(request.Context(), userID, CreateInput{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     input.DueDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, goal)
}

/*
List returns all of the user's goals.

GET /api/goals

Response:
  - 200: []Goal: Goals, soonest due first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	goals, err := handler.goalService.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, goals)
}

/*
Stats returns the user's goal statistics.

GET /api/goals/stats

Response:
  - 200: Stats: Totals, completion rate, chart data
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.goalService.Statistics(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

/*
Get returns one goal.

GET /api/goals/{id}

Response:
  - 200: Goal: Matching goal
  - 403: ErrForbidden: Goal belongs to another user
  - 404: ErrNotFound: Unknown goal id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	goalID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	goal, err := handler.goalService.Get(request.Context(), userID, goalID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, goal)
}

/*
Update partially updates a goal.

PATCH /api/goals/{id}

Description: Absent JSON fields keep their current values.

Request:
  - Body: updateGoalRequest (Name?, Description?, DueDate?, Completed?)

Response:
  - 200: Goal: Updated goal
  - 400: ErrInvalidJSON: Bad input or malformed due date
  - 403: ErrForbidden: Goal belongs to another user
  - 404: ErrNotFound: Unknown goal id
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	goalID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateGoalRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	goal, err := handler.goalService.Update(request.Context(), userID, goalID, UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     input.DueDate,
		Completed:   input.Completed,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, goal)
}

/*
Remove deletes a goal.

DELETE /api/goals/{id}

Response:
  - 204: No Content: Goal removed
  - 403: ErrForbidden: Goal belongs to another user
  - 404: ErrNotFound: Unknown goal id
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	goalID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.goalService.Delete(request.Context(), userID, goalID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
