// Copyright (c) 2026 Study Partner. All rights reserved.

package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
	"github.com/studypartner/api/pkg/pagination"
)

// Handler implements quiz attempt HTTP endpoints.
type Handler struct {
	quizService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{quizService: service}
}

// Routes returns a [chi.Router] configured with quiz routes.
//
// # Endpoints
//   - POST /              : Records a quiz attempt.
//   - GET  /history       : Aggregated attempts per document.
//   - GET  /file/{fileID} : Attempts on one document.
//   - GET  /{id}          : Returns one recorded attempt.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.save)
		r.Get("/history", handler.history)
		r.Get("/file/{fileID}", handler.fileAttempts)
		r.Get("/{id}", handler.get)
	})

	return router
}

// # Request Payloads

type saveQuizRequest struct {
	FileID         int64           `json:"file_id"`
	QuizData       json.RawMessage `json:"quiz_data"`
	UserAnswers    json.RawMessage `json:"user_answers"`
	Score          *int            `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	Difficulty     string          `json:"difficulty"`
	Completed      bool            `json:"completed"`
}

/*
Save records a quiz attempt.

POST /api/quiz

Request:
  - Body: saveQuizRequest

Response:
  - 201: QuizSession: Recorded attempt
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound: Unknown or foreign document
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input saveQuizRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom("file_id", input.FileID <= 0, "Must be a positive numeric id").
		Custom("quiz_data", len(input.QuizData) == 0, "Quiz data is required").
		Range("total_questions", input.TotalQuestions, 1, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.quizService.Save(request.Context(), userID, SaveInput{
		FileID:         input.FileID,
		QuizData:       input.QuizData,
		UserAnswers:    input.UserAnswers,
		Score:          input.Score,
		TotalQuestions: input.TotalQuestions,
		Difficulty:     input.Difficulty,
		Completed:      input.Completed,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
History returns the user's aggregated quiz history.

GET /api/quiz/history

Response:
  - 200: []FileHistory: One entry per document with attempts
*/
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	history, err := handler.quizService.History(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history)
}

/*
FileAttempts lists the user's attempts on one document.

GET /api/quiz/file/{fileID}?page=N&limit=M

Query parameters:
  - page: 1-indexed page, default 1
  - limit: Rows per page, default 20, capped at 100

Response:
  - 200: {data: []QuizSession, meta}: One page of attempts, newest first
  - 404: ErrNotFound: Unknown or foreign document
*/
func (handler *Handler) fileAttempts(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fileID, err := requestutil.NumericID(request, "fileID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	sessions, meta, err := handler.quizService.FileAttempts(request.Context(), userID, fileID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, sessions, meta)
}

/*
Get returns one recorded quiz attempt.

GET /api/quiz/{id}

Response:
  - 200: QuizSession: Recorded attempt
  - 404: ErrNotFound: Unknown or foreign attempt
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.quizService.Get(request.Context(), userID, sessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}
