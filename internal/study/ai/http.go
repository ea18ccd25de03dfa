// Copyright (c) 2026 Study Partner. All rights reserved.

package ai

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
	"github.com/studypartner/api/pkg/convert"
)

// Handler implements the AI study feature HTTP endpoints.
type Handler struct {
	aiService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{aiService: service}
}

// Routes returns a [chi.Router] configured with AI routes.
//
// # Endpoints
//   - POST /summarize             : Generates and stores a document summary.
//   - GET  /summaries             : Lists the user's stored summaries.
//   - GET  /summary/{fileID}      : Returns one stored summary.
//   - GET  /files-with-summaries  : Lists recent uploads with a summary marker.
//   - GET  /files-for-quiz        : Lists recent uploads usable as quiz sources.
//   - POST /chat                  : Answers a question about a document.
//   - POST /quiz                  : Generates a quiz from a document.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/summarize", handler.summarize)
		r.Get("/summaries", handler.summaries)
		r.Get("/summary/{fileID}", handler.summary)
		r.Get("/files-with-summaries", handler.filesWithSummaries)
		r.Get("/files-for-quiz", handler.filesForQuiz)
		r.Post("/chat", handler.chat)
		r.Post("/quiz", handler.quiz)
	})

	return router
}

// # Request Payloads

type summarizeRequest struct {
	FileID    int64 `json:"file_id"`
	MaxLength int   `json:"max_length"`
}

type chatRequest struct {
	FileID   int64  `json:"file_id"`
	Question string `json:"question"`
}

type quizRequest struct {
	FileID       int64  `json:"file_id"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

/*
Summarize generates a summary for one of the user's documents.

POST /api/ai/summarize

Request:
  - Body: summarizeRequest (FileID, MaxLength?)

Response:
  - 200: SummaryResult: Generated summary
  - 400: ErrInvalidJSON: Bad input or document without text
  - 404: ErrNotFound: Unknown or foreign document
  - 502: ErrUpstream: AI backend failure
*/
func (handler *Handler) summarize(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input summarizeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.FileID <= 0 {
		respond.Error(writer, request, validate.RequiredError("file_id", "Must be a positive numeric id"))
		return
	}

	result, err := handler.aiService.Summarize(request.Context(), userID, input.FileID, input.MaxLength)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Summaries lists the user's stored document summaries.

GET /api/ai/summaries

Response:
  - 200: []SummaryResult: Summaries, newest first
*/
func (handler *Handler) summaries(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := handler.aiService.UserSummaries(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, results)
}

/*
FilesWithSummaries lists recent uploads annotated with a summary marker.

GET /api/ai/files-with-summaries?limit=N

Response:
  - 200: []FileOverview: Recent uploads, newest first
*/
func (handler *Handler) filesWithSummaries(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := convert.ToIntD(request.URL.Query().Get("limit"), 0)

	overview, err := handler.aiService.FilesWithSummaries(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}

/*
FilesForQuiz lists recent uploads usable as quiz sources.

GET /api/ai/files-for-quiz?limit=N

Response:
  - 200: []QuizSource: Recent uploads, newest first
*/
func (handler *Handler) filesForQuiz(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := convert.ToIntD(request.URL.Query().Get("limit"), 0)

	sources, err := handler.aiService.FilesForQuiz(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sources)
}

/*
Summary returns the stored summary for one document.

GET /api/ai/summary/{fileID}

Response:
  - 200: SummaryResult: Stored summary
  - 404: ErrNotFound: No such document or no summary yet
*/
func (handler *Handler) summary(writer http.ResponseWriter, request *http.Request) {
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

	result, err := handler.aiService.GetSummary(request.Context(), userID, fileID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Chat answers a question about one of the user's documents.

POST /api/ai/chat

Request:
  - Body: chatRequest (FileID, Question)

Response:
  - 200: ChatAnswer: Model reply
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound: Unknown or foreign document
  - 502: ErrUpstream: AI backend failure
*/
func (handler *Handler) chat(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input chatRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("question", input.Question).
		MaxLen("question", input.Question, 2000).
		Custom("file_id", input.FileID <= 0, "Must be a positive numeric id")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	answer, err := handler.aiService.Chat(request.Context(), userID, input.FileID, input.Question)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, answer)
}

/*
Quiz generates a multiple-choice quiz from one of the user's documents.

POST /api/ai/quiz

Request:
  - Body: quizRequest (FileID, NumQuestions 1–20, Difficulty easy|medium|hard)

Response:
  - 200: Quiz: Generated question set
  - 400: ErrInvalidJSON: Bad parameters
  - 404: ErrNotFound: Unknown or foreign document
  - 502: ErrUpstream: AI backend failure or unusable model output
*/
func (handler *Handler) quiz(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input quizRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom("file_id", input.FileID <= 0, "Must be a positive numeric id").
		Range("num_questions", input.NumQuestions, MinQuizQuestions, MaxQuizQuestions).
		OneOf("difficulty", input.Difficulty, Difficulties...)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	quiz, err := handler.aiService.GenerateQuiz(request.Context(), userID, input.FileID, input.NumQuestions, input.Difficulty)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, quiz)
}
