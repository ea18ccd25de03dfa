// Copyright (c) 2026 Study Partner. All rights reserved.

package document

import (
	stdctx "context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypartner/api/internal/platform/apperr"
)

// fakePDFRepository is an in-memory PDFRepository for service tests.
type fakePDFRepository struct {
	files   map[int64]*PDFFile
	nextID  int64
	failing bool
}

func newFakePDFRepository() *fakePDFRepository {
	return &fakePDFRepository{files: make(map[int64]*PDFFile)}
}

func (f *fakePDFRepository) Insert(_ stdctx.Context, file *PDFFile) error {
	if f.failing {
		return apperr.Internal(nil)
	}
	f.nextID++
	file.ID = f.nextID
	clone := *file
	f.files[file.ID] = &clone
	return nil
}

func (f *fakePDFRepository) FindByID(_ stdctx.Context, id int64) (*PDFFile, error) {
	if file, ok := f.files[id]; ok {
		clone := *file
		return &clone, nil
	}
	return nil, apperr.NotFound("Document")
}

func (f *fakePDFRepository) ListByUser(_ stdctx.Context, userID int64, limit int) ([]*PDFFile, error) {
	matches := make([]*PDFFile, 0)
	for _, file := range f.files {
		if file.UserID == userID {
			clone := *file
			matches = append(matches, &clone)
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (f *fakePDFRepository) ListWithSummaries(_ stdctx.Context, userID int64) ([]*PDFFile, error) {
	matches := make([]*PDFFile, 0)
	for _, file := range f.files {
		if file.UserID == userID && file.HasSummary() {
			clone := *file
			matches = append(matches, &clone)
		}
	}
	return matches, nil
}

func (f *fakePDFRepository) SaveSummary(_ stdctx.Context, id int64, summary string, generatedAt time.Time) error {
	file, ok := f.files[id]
	if !ok {
		return apperr.NotFound("Document")
	}
	file.Summary = &summary
	file.SummaryGeneratedAt = &generatedAt
	return nil
}

func (f *fakePDFRepository) Delete(_ stdctx.Context, id int64) error {
	if _, ok := f.files[id]; !ok {
		return apperr.NotFound("Document")
	}
	delete(f.files, id)
	return nil
}

// fakeObjectStore records stored payloads by key.
type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(_ stdctx.Context, key, _ string, payload []byte) error {
	s.objects[key] = payload
	return nil
}

func (s *fakeObjectStore) Get(_ stdctx.Context, key string) ([]byte, error) {
	if payload, ok := s.objects[key]; ok {
		return payload, nil
	}
	return nil, apperr.NotFound("Object")
}

func (s *fakeObjectStore) Delete(_ stdctx.Context, key string) error {
	delete(s.objects, key)
	return nil
}

// fakeExtractor pretends every payload with a %PDF prefix is readable.
type fakeExtractor struct{}

func (fakeExtractor) Extract(payload []byte) (string, error) {
	if !strings.HasPrefix(string(payload), "%PDF") {
		return "", apperr.ValidationError("File is not a readable PDF document")
	}
	return "extracted text of " + string(payload[4:]), nil
}

func newTestService() (*Service, *fakePDFRepository, *fakeObjectStore) {
	repo := newFakePDFRepository()
	objects := newFakeObjectStore()
	service := NewService(repo, objects, fakeExtractor{})
	return service, repo, objects
}

// # Upload

func TestUpload_StoresObjectAndRow(t *testing.T) {
	service, repo, objects := newTestService()

	file, err := service.Upload(stdctx.Background(), 7, "Lecture Notes.pdf", []byte("%PDFcontent"))

	require.NoError(t, err)
	require.NotZero(t, file.ID)
	assert.Equal(t, "Lecture Notes.pdf", file.Filename)
	assert.Equal(t, "extracted text of content", file.ExtractedText)
	assert.Contains(t, file.ObjectKey, "documents/7/")
	assert.Contains(t, file.ObjectKey, "lecture-notes")
	assert.True(t, strings.HasSuffix(file.ObjectKey, ".pdf"))

	stored, err := repo.FindByID(stdctx.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ObjectKey, stored.ObjectKey)
	assert.Equal(t, []byte("%PDFcontent"), objects.objects[file.ObjectKey])
}

func TestUpload_EqualFilenamesGetDistinctKeys(t *testing.T) {
	service, _, _ := newTestService()

	first, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("%PDFone"))
	require.NoError(t, err)
	second, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("%PDFtwo"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
}

func TestUpload_RejectsEmptyPayload(t *testing.T) {
	service, _, objects := newTestService()

	_, err := service.Upload(stdctx.Background(), 7, "empty.pdf", nil)

	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	assert.Empty(t, objects.objects, "nothing may be stored for a rejected upload")
}

func TestUpload_RejectsUnreadablePDF(t *testing.T) {
	service, _, objects := newTestService()

	_, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("plain text"))

	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	assert.Empty(t, objects.objects)
}

func TestUpload_RowFailureRollsBackObject(t *testing.T) {
	service, repo, objects := newTestService()
	repo.failing = true

	_, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("%PDFcontent"))

	require.Error(t, err)
	assert.Empty(t, objects.objects, "object must be rolled back when the row insert fails")
}

// # Retrieval & Deletion

func TestGetOwned_ForeignDocumentAnswersNotFound(t *testing.T) {
	service, _, _ := newTestService()

	file, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("%PDFcontent"))
	require.NoError(t, err)

	_, err = service.GetOwned(stdctx.Background(), 8, file.ID)

	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus,
		"foreign documents must be indistinguishable from missing ones")
}

func TestDownload_ReturnsOriginalBytes(t *testing.T) {
	service, _, _ := newTestService()

	file, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("%PDFcontent"))
	require.NoError(t, err)

	meta, payload, err := service.Download(stdctx.Background(), 7, file.ID)

	require.NoError(t, err)
	assert.Equal(t, file.ID, meta.ID)
	assert.Equal(t, []byte("%PDFcontent"), payload)
}

func TestDelete_RemovesRowAndObject(t *testing.T) {
	service, repo, objects := newTestService()

	file, err := service.Upload(stdctx.Background(), 7, "notes.pdf", []byte("%PDFcontent"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(stdctx.Background(), 7, file.ID))

	_, err = repo.FindByID(stdctx.Background(), file.ID)
	require.Error(t, err)
	assert.Empty(t, objects.objects)
}
