// Copyright (c) 2026 Study Partner. All rights reserved.

package document

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
	"github.com/studypartner/api/pkg/convert"
)

// Handler implements document HTTP endpoints.
type Handler struct {
	documentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{documentService: service}
}

// Routes returns a [chi.Router] configured with document routes.
//
// # Endpoints
//   - POST   /upload        : Uploads a PDF document.
//   - GET    /              : Lists the user's documents.
//   - GET    /recent        : Lists the most recent uploads.
//   - GET    /{id}          : Returns one document's metadata.
//   - GET    /{id}/download : Streams the original PDF back.
//   - DELETE /{id}          : Deletes a document.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/upload", handler.upload)
		r.Get("/", handler.list)
		r.Get("/recent", handler.recent)
		r.Get("/{id}", handler.get)
		r.Get("/{id}/download", handler.download)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

/*
Upload ingests a PDF document sent as multipart form data.

POST /api/files/upload

Request:
  - Multipart form with a single "file" part

Response:
  - 201: PDFFile: Stored document metadata
  - 400: ErrInvalidJSON: Missing part, oversized payload, or unreadable PDF
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes+4096)

	part, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "A PDF file part is required"))
		return
	}
	defer part.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		respond.Error(writer, request, apperr.ValidationError("Only PDF files are accepted"))
		return
	}

	payload, err := io.ReadAll(part)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Uploaded file could not be read"))
		return
	}

	file, err := handler.documentService.Upload(request.Context(), userID, header.Filename, payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, file)
}

/*
List returns all of the user's documents.

GET /api/files?limit=N

Query parameters:
  - limit: Optional cap on results; omitted or 0 returns everything

Response:
  - 200: []PDFFile: Documents newest first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := convert.ToIntD(request.URL.Query().Get("limit"), 0)

	files, err := handler.documentService.List(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, files)
}

/*
Recent returns the user's latest uploads for the dashboard.

GET /api/files/recent

Response:
  - 200: []PDFFile: Most recent documents
*/
func (handler *Handler) recent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	files, err := handler.documentService.Recent(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, files)
}

/*
Get returns one document's metadata.

GET /api/files/{id}

Response:
  - 200: PDFFile: Document metadata
  - 404: ErrNotFound: Unknown or foreign document
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fileID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := handler.documentService.GetOwned(request.Context(), userID, fileID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, file)
}

/*
Download streams the original PDF back to the owner.

GET /api/files/{id}/download

Response:
  - 200: application/pdf bytes
  - 404: ErrNotFound: Unknown or foreign document
*/
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fileID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, payload, err := handler.documentService.Download(request.Context(), userID, fileID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "application/pdf")
	writer.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(payload)
}

/*
Remove deletes a document and its stored object.

DELETE /api/files/{id}

Response:
  - 204: No Content: Document removed
  - 404: ErrNotFound: Unknown or foreign document
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fileID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.documentService.Delete(request.Context(), userID, fileID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
