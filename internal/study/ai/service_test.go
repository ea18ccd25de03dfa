// Copyright (c) 2026 Study Partner. All rights reserved.

package ai

import (
	stdctx "context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/llm"
	"github.com/studypartner/api/internal/study/document"
)

// fakeCompleter replays a canned completion and records the prompt.
type fakeCompleter struct {
	completion string
	err        error
	messages   []llm.Message
}

func (f *fakeCompleter) Complete(_ stdctx.Context, messages []llm.Message) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

// memoryPDFRepository backs document.Service for AI tests.
type memoryPDFRepository struct {
	files  map[int64]*document.PDFFile
	nextID int64
}

func newMemoryPDFRepository() *memoryPDFRepository {
	return &memoryPDFRepository{files: make(map[int64]*document.PDFFile)}
}

func (m *memoryPDFRepository) Insert(_ stdctx.Context, file *document.PDFFile) error {
	m.nextID++
	file.ID = m.nextID
	clone := *file
	m.files[file.ID] = &clone
	return nil
}

func (m *memoryPDFRepository) FindByID(_ stdctx.Context, id int64) (*document.PDFFile, error) {
	if file, ok := m.files[id]; ok {
		clone := *file
		return &clone, nil
	}
	return nil, apperr.NotFound("Document")
}

func (m *memoryPDFRepository) ListByUser(_ stdctx.Context, userID int64, limit int) ([]*document.PDFFile, error) {
	matches := make([]*document.PDFFile, 0)
	for _, file := range m.files {
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

func (m *memoryPDFRepository) ListWithSummaries(_ stdctx.Context, userID int64) ([]*document.PDFFile, error) {
	matches := make([]*document.PDFFile, 0)
	for _, file := range m.files {
		if file.UserID == userID && file.HasSummary() {
			clone := *file
			matches = append(matches, &clone)
		}
	}
	return matches, nil
}

func (m *memoryPDFRepository) SaveSummary(_ stdctx.Context, id int64, summary string, generatedAt time.Time) error {
	file, ok := m.files[id]
	if !ok {
		return apperr.NotFound("Document")
	}
	file.Summary = &summary
	file.SummaryGeneratedAt = &generatedAt
	return nil
}

func (m *memoryPDFRepository) Delete(_ stdctx.Context, id int64) error {
	delete(m.files, id)
	return nil
}

// nullObjectStore satisfies storage.ObjectStore; AI tests never touch objects.
type nullObjectStore struct{}

func (nullObjectStore) Put(_ stdctx.Context, _, _ string, _ []byte) error { return nil }
func (nullObjectStore) Get(_ stdctx.Context, _ string) ([]byte, error)    { return nil, nil }
func (nullObjectStore) Delete(_ stdctx.Context, _ string) error           { return nil }

// passExtractor satisfies pdftext.Extractor; AI tests seed rows directly.
type passExtractor struct{}

func (passExtractor) Extract(payload []byte) (string, error) { return string(payload), nil }

func newTestService(completer *fakeCompleter) (*Service, *memoryPDFRepository) {
	repo := newMemoryPDFRepository()
	documents := document.NewService(repo, nullObjectStore{}, passExtractor{})
	return NewService(documents, repo, completer), repo
}

func seedFile(t *testing.T, repo *memoryPDFRepository, userID int64, text string) *document.PDFFile {
	t.Helper()
	file := &document.PDFFile{
		UserID:        userID,
		Filename:      "notes.pdf",
		ObjectKey:     "documents/seeded",
		ExtractedText: text,
		UploadedAt:    time.Now(),
	}
	require.NoError(t, repo.Insert(stdctx.Background(), file))
	return file
}

// # Summaries

func TestSummarize_PersistsSummary(t *testing.T) {
	completer := &fakeCompleter{completion: "The document covers photosynthesis."}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, "Photosynthesis converts light into energy.")

	result, err := service.Summarize(stdctx.Background(), 7, file.ID, 100)

	require.NoError(t, err)
	assert.Equal(t, "The document covers photosynthesis.", result.Summary)

	stored, err := repo.FindByID(stdctx.Background(), file.ID)
	require.NoError(t, err)
	require.True(t, stored.HasSummary())
	assert.Equal(t, result.Summary, *stored.Summary)

	require.Len(t, completer.messages, 2)
	assert.Contains(t, completer.messages[1].Content, "Photosynthesis converts light")
	assert.Contains(t, completer.messages[1].Content, "100 words")
}

func TestSummarize_ForeignDocumentNotFound(t *testing.T) {
	service, repo := newTestService(&fakeCompleter{completion: "irrelevant"})
	file := seedFile(t, repo, 7, "some text")

	_, err := service.Summarize(stdctx.Background(), 8, file.ID, 0)

	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

func TestSummarize_DocumentWithoutTextRejected(t *testing.T) {
	service, repo := newTestService(&fakeCompleter{completion: "irrelevant"})
	file := seedFile(t, repo, 7, "   ")

	_, err := service.Summarize(stdctx.Background(), 7, file.ID, 0)

	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}

func TestSummarize_UpstreamFailurePropagates(t *testing.T) {
	completer := &fakeCompleter{err: apperr.Upstream("AI backend unavailable", nil)}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, "some text")

	_, err := service.Summarize(stdctx.Background(), 7, file.ID, 0)

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)

	stored, findErr := repo.FindByID(stdctx.Background(), file.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.HasSummary(), "failed generations must not persist")
}

func TestGetSummary_MissingSummaryNotFound(t *testing.T) {
	service, repo := newTestService(&fakeCompleter{})
	file := seedFile(t, repo, 7, "some text")

	_, err := service.GetSummary(stdctx.Background(), 7, file.ID)

	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

// # Chat

func TestChat_GroundsPromptInDocument(t *testing.T) {
	completer := &fakeCompleter{completion: "Chlorophyll absorbs light."}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, "Chlorophyll is the green pigment in plants.")

	answer, err := service.Chat(stdctx.Background(), 7, file.ID, "What absorbs light?")

	require.NoError(t, err)
	assert.Equal(t, "Chlorophyll absorbs light.", answer.Answer)
	assert.Contains(t, completer.messages[1].Content, "Chlorophyll is the green pigment")
	assert.Contains(t, completer.messages[1].Content, "What absorbs light?")
}

func TestChat_TruncatesOversizedDocuments(t *testing.T) {
	completer := &fakeCompleter{completion: "ok"}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, strings.Repeat("x", maxPromptChars*2))

	_, err := service.Chat(stdctx.Background(), 7, file.ID, "anything?")

	require.NoError(t, err)
	assert.Less(t, len(completer.messages[1].Content), maxPromptChars+200)
}

// # Quiz Generation

func TestGenerateQuiz_ParsesFencedCompletion(t *testing.T) {
	completer := &fakeCompleter{completion: "```json\n" + `[
		{"question":"What is H2O?","options":["Water","Salt","Air","Fire"],
		 "correct_answer":"Water","explanation":"H2O is water."}
	]` + "\n```"}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, "H2O is water.")

	quiz, err := service.GenerateQuiz(stdctx.Background(), 7, file.ID, 1, "easy")

	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "What is H2O?", quiz.Questions[0].Question)
	assert.Equal(t, "Water", quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, "easy", quiz.Difficulty)
}

func TestGenerateQuiz_UnusableCompletionIsUpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{completion: "Sorry, I can't make a quiz from this."}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, "some text")

	_, err := service.GenerateQuiz(stdctx.Background(), 7, file.ID, 5, "medium")

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}

func TestGenerateQuiz_EmptyArrayIsUpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{completion: "[]"}
	service, repo := newTestService(completer)
	file := seedFile(t, repo, 7, "some text")

	_, err := service.GenerateQuiz(stdctx.Background(), 7, file.ID, 5, "hard")

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}

func TestFilesWithSummaries_MarksSummarizedFiles(t *testing.T) {
	completer := &fakeCompleter{completion: "A short summary."}
	service, repo := newTestService(completer)
	summarized := seedFile(t, repo, 7, "first document text")
	plain := seedFile(t, repo, 7, "second document text")

	_, err := service.Summarize(stdctx.Background(), 7, summarized.ID, 50)
	require.NoError(t, err)

	overview, err := service.FilesWithSummaries(stdctx.Background(), 7, 0)

	require.NoError(t, err)
	require.Len(t, overview, 2)
	byID := make(map[int64]*FileOverview, len(overview))
	for _, row := range overview {
		byID[row.ID] = row
	}
	require.Contains(t, byID, summarized.ID)
	require.Contains(t, byID, plain.ID)
	assert.True(t, byID[summarized.ID].HasSummary)
	assert.NotNil(t, byID[summarized.ID].SummaryGeneratedAt)
	assert.False(t, byID[plain.ID].HasSummary)
	assert.Nil(t, byID[plain.ID].SummaryGeneratedAt)
}

func TestFilesForQuiz_HonorsLimit(t *testing.T) {
	service, repo := newTestService(&fakeCompleter{})
	for i := 0; i < 4; i++ {
		seedFile(t, repo, 7, "quiz source text")
	}
	seedFile(t, repo, 8, "someone else's document")

	sources, err := service.FilesForQuiz(stdctx.Background(), 7, 3)

	require.NoError(t, err)
	assert.Len(t, sources, 3)
	for _, source := range sources {
		assert.Equal(t, "notes.pdf", source.Filename)
	}
}
