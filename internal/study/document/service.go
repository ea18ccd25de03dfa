// Copyright (c) 2026 Study Partner. All rights reserved.

package document

import (
	stdctx "context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/ctxutil"
	"github.com/studypartner/api/internal/platform/metrics"
	"github.com/studypartner/api/internal/platform/pdftext"
	"github.com/studypartner/api/internal/platform/storage"
	"github.com/studypartner/api/pkg/slug"
)

// Service orchestrates document upload, retrieval, and deletion.
type Service struct {
	fileRepository PDFRepository
	objects        storage.ObjectStore
	extractor      pdftext.Extractor

	now func() time.Time
}

// NewService constructs a new document [Service].
func NewService(fileRepository PDFRepository, objects storage.ObjectStore, extractor pdftext.Extractor) *Service {
	return &Service{
		fileRepository: fileRepository,
		objects:        objects,
		extractor:      extractor,
		now:            time.Now,
	}
}

/*
Upload ingests a PDF document for the user.

Description: Validates that the payload is a readable PDF, extracts its plain
text for the AI features, stores the original bytes in object storage, and
persists the metadata row. The object key is derived from a slug of the
filename plus a random component so equal filenames never collide.

Parameters:
  - context: context.Context
  - userID: int64
  - filename: Original upload name
  - payload: Raw file bytes

Returns:
  - *PDFFile: Persisted document with its assigned ID
  - error: ValidationError for non-PDF payloads, or storage failures
*/
func (service *Service) Upload(context stdctx.Context, userID int64, filename string, payload []byte) (*PDFFile, error) {
	if len(payload) == 0 {
		return nil, apperr.ValidationError("Uploaded file is empty")
	}
	if len(payload) > constants.MaxUploadBytes {
		return nil, apperr.ValidationError("Uploaded file exceeds the size limit")
	}

	// Parse before any side effects: a broken PDF must not leave an orphaned
	// object behind.
	extractedText, err := service.extractor.Extract(payload)
	if err != nil {
		return nil, err
	}

	objectKey, err := service.buildObjectKey(userID, filename)
	if err != nil {
		return nil, err
	}

	if err := service.objects.Put(context, objectKey, "application/pdf", payload); err != nil {
		return nil, fmt.Errorf("document_service_object_put_failed: %w", err)
	}

	file := &PDFFile{
		UserID:        userID,
		Filename:      filename,
		ObjectKey:     objectKey,
		ExtractedText: extractedText,
		UploadedAt:    service.now(),
	}

	if err := service.fileRepository.Insert(context, file); err != nil {
		// Roll back the stored object so storage does not accumulate
		// unreferenced files.
		if cleanupErr := service.objects.Delete(context, objectKey); cleanupErr != nil {
			ctxutil.GetLogger(context).Error("orphaned upload object left behind",
				"object_key", objectKey,
				"error", cleanupErr,
			)
		}
		return nil, err
	}

	metrics.DocumentsUploadedTotal.Inc()
	metrics.DocumentUploadBytes.Observe(float64(len(payload)))

	return file, nil
}

// buildObjectKey derives a unique storage key from the upload filename.
func (service *Service) buildObjectKey(userID int64, filename string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("document_service_object_key_failed: %w", err)
	}

	base := slug.From(strings.TrimSuffix(filename, ".pdf"))
	if base == "" {
		base = "document"
	}

	return fmt.Sprintf("documents/%d/%s-%s.pdf", userID, id.String(), base), nil
}

/*
List returns the user's documents, newest first.

Parameters:
  - limit: Maximum number of documents to return; 0 or negative means all

Returns:
  - []*PDFFile: Documents without extracted text
  - error: Storage failures
*/
func (service *Service) List(context stdctx.Context, userID int64, limit int) ([]*PDFFile, error) {
	if limit < 0 {
		limit = 0
	}
	return service.fileRepository.ListByUser(context, userID, limit)
}

/*
Recent returns the user's most recently uploaded documents for the dashboard.

Returns:
  - []*PDFFile: At most [constants.RecentFilesLimit] documents
  - error: Storage failures
*/
func (service *Service) Recent(context stdctx.Context, userID int64) ([]*PDFFile, error) {
	return service.fileRepository.ListByUser(context, userID, constants.RecentFilesLimit)
}

/*
GetOwned returns a document after verifying the caller owns it.

Description: Other users' documents answer NotFound rather than Forbidden so
the API does not confirm the existence of foreign IDs.

Parameters:
  - context: context.Context
  - callerID: Authenticated user
  - fileID: int64

Returns:
  - *PDFFile: Matching entity with extracted text
  - error: NotFound for missing or foreign documents
*/
func (service *Service) GetOwned(context stdctx.Context, callerID, fileID int64) (*PDFFile, error) {
	file, err := service.fileRepository.FindByID(context, fileID)
	if err != nil {
		return nil, err
	}

	if file.UserID != callerID {
		return nil, apperr.NotFound("Document")
	}

	return file, nil
}

/*
Download returns the original PDF bytes of an owned document.

Returns:
  - *PDFFile: Document metadata
  - []byte: Raw PDF payload from object storage
  - error: NotFound or object storage failures
*/
func (service *Service) Download(context stdctx.Context, callerID, fileID int64) (*PDFFile, []byte, error) {
	file, err := service.GetOwned(context, callerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	payload, err := service.objects.Get(context, file.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("document_service_object_get_failed: %w", err)
	}

	return file, payload, nil
}

/*
Delete removes an owned document and its stored object.

Description: The database row goes first; a failure to delete the object
afterwards is logged but not surfaced, since the document is already gone
from the user's perspective.

Returns:
  - error: NotFound for missing or foreign documents
*/
func (service *Service) Delete(context stdctx.Context, callerID, fileID int64) error {
	file, err := service.GetOwned(context, callerID, fileID)
	if err != nil {
		return err
	}

	if err := service.fileRepository.Delete(context, file.ID); err != nil {
		return err
	}

	if err := service.objects.Delete(context, file.ObjectKey); err != nil {
		ctxutil.GetLogger(context).Error("failed to delete stored object",
			"object_key", file.ObjectKey,
			"error", err,
		)
	}

	return nil
}
