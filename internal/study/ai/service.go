// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package ai implements the study features backed by an LLM.

All three operations — summaries, document chat, and quiz generation — share
the same shape: fetch the caller's document, assemble a prompt from its
extracted text, and run one chat completion. Summaries are persisted on the
document row so repeat visits are free; chat and quizzes are computed per
request.

Prompts truncate document text to a fixed character budget. Oversized
documents get summarized from their head rather than erroring out.
*/
package ai

import (
	stdctx "context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/llm"
	"github.com/studypartner/api/internal/platform/metrics"
	"github.com/studypartner/api/internal/study/document"
)

// maxPromptChars caps how much document text a single prompt may carry.
const maxPromptChars = 12000

// Quiz generation bounds.
const (
	MinQuizQuestions = 1
	MaxQuizQuestions = 20
)

// Difficulties accepted by quiz generation.
var Difficulties = []string{"easy", "medium", "hard"}

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz is the generated question set for one document.
type Quiz struct {
	FileID     int64          `json:"file_id"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuizQuestion `json:"questions"`
}

// SummaryResult pairs a document with its generated summary.
type SummaryResult struct {
	FileID      int64     `json:"file_id"`
	Filename    string    `json:"filename"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ChatAnswer is the model's reply to a document question.
type ChatAnswer struct {
	FileID   int64  `json:"file_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// defaultPickerLimit bounds the dashboard file listings when the client
// sends no limit of its own.
const defaultPickerLimit = 10

// FileOverview is one row of the summary picker: a recent upload plus
// whether a summary already exists for it.
type FileOverview struct {
	ID                 int64      `json:"id"`
	Filename           string     `json:"name"`
	UploadedAt         time.Time  `json:"uploaded_at"`
	HasSummary         bool       `json:"has_summary"`
	SummaryGeneratedAt *time.Time `json:"summary_generated_at,omitempty"`
}

// QuizSource is one row of the quiz picker.
type QuizSource struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Service orchestrates the LLM-backed study features.
type Service struct {
	documents      *document.Service
	fileRepository document.PDFRepository
	completer      llm.Completer

	now func() time.Time
}

// NewService constructs a new AI [Service].
func NewService(documents *document.Service, fileRepository document.PDFRepository, completer llm.Completer) *Service {
	return &Service{
		documents:      documents,
		fileRepository: fileRepository,
		completer:      completer,
		now:            time.Now,
	}
}

/*
Summarize generates and persists a summary for an owned document.

Description: Re-running the operation regenerates and overwrites the stored
summary.

Parameters:
  - context: context.Context
  - callerID: Authenticated user
  - fileID: int64
  - maxLength: Approximate summary budget in words; 0 applies a default

Returns:
  - *SummaryResult: Generated summary
  - error: NotFound, ValidationError (no extractable text), or Upstream failures
*/
func (service *Service) Summarize(context stdctx.Context, callerID, fileID int64, maxLength int) (*SummaryResult, error) {
	file, err := service.promptableFile(context, callerID, fileID)
	if err != nil {
		return nil, err
	}

	if maxLength <= 0 {
		maxLength = 300
	}

	prompt := fmt.Sprintf(
		"Summarize the following study document in at most %d words. "+
			"Focus on the key concepts a student should retain.\n\n%s",
		maxLength,
		truncateText(file.ExtractedText),
	)

	summary, err := service.complete(context, "summarize", []llm.Message{
		{Role: "system", Content: "You are a study assistant that writes clear, accurate summaries."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	generatedAt := service.now()
	if err := service.fileRepository.SaveSummary(context, file.ID, summary, generatedAt); err != nil {
		return nil, fmt.Errorf("ai_service_save_summary_failed: %w", err)
	}

	return &SummaryResult{
		FileID:      file.ID,
		Filename:    file.Filename,
		Summary:     summary,
		GeneratedAt: generatedAt,
	}, nil
}

/*
GetSummary returns the stored summary of an owned document.

Returns:
  - *SummaryResult: Previously generated summary
  - error: NotFound when the document or its summary does not exist
*/
func (service *Service) GetSummary(context stdctx.Context, callerID, fileID int64) (*SummaryResult, error) {
	file, err := service.documents.GetOwned(context, callerID, fileID)
	if err != nil {
		return nil, err
	}

	if !file.HasSummary() {
		return nil, apperr.NotFound("Summary")
	}

	return &SummaryResult{
		FileID:      file.ID,
		Filename:    file.Filename,
		Summary:     *file.Summary,
		GeneratedAt: *file.SummaryGeneratedAt,
	}, nil
}

/*
Chat answers a free-form question about an owned document.

Parameters:
  - context: context.Context
  - callerID: Authenticated user
  - fileID: int64
  - question: string

Returns:
  - *ChatAnswer: Model reply grounded in the document text
  - error: NotFound, ValidationError, or Upstream failures
*/
func (service *Service) Chat(context stdctx.Context, callerID, fileID int64, question string) (*ChatAnswer, error) {
	file, err := service.promptableFile(context, callerID, fileID)
	if err != nil {
		return nil, err
	}

	answer, err := service.complete(context, "chat", []llm.Message{
		{
			Role: "system",
			Content: "You are a study assistant. Answer questions using only the " +
				"provided document. Say so when the document does not contain the answer.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Document:\n%s\n\nQuestion: %s", truncateText(file.ExtractedText), question),
		},
	})
	if err != nil {
		return nil, err
	}

	return &ChatAnswer{
		FileID:   file.ID,
		Question: question,
		Answer:   answer,
	}, nil
}

/*
GenerateQuiz produces a multiple-choice quiz from an owned document.

Parameters:
  - context: context.Context
  - callerID: Authenticated user
  - fileID: int64
  - numQuestions: Between [MinQuizQuestions] and [MaxQuizQuestions]
  - difficulty: One of [Difficulties]

Returns:
  - *Quiz: Parsed question set
  - error: ValidationError for bad parameters, Upstream for unusable model output
*/
func (service *Service) GenerateQuiz(context stdctx.Context, callerID, fileID int64, numQuestions int, difficulty string) (*Quiz, error) {
	file, err := service.promptableFile(context, callerID, fileID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Create a %s-difficulty multiple choice quiz with exactly %d questions "+
			"from the document below. Respond with ONLY a JSON array; each element "+
			`must have "question", "options" (4 strings), "correct_answer" (one of `+
			`the options), and "explanation".`+"\n\nDocument:\n%s",
		difficulty,
		numQuestions,
		truncateText(file.ExtractedText),
	)

	completion, err := service.complete(context, "quiz", []llm.Message{
		{Role: "system", Content: "You are a quiz generator that outputs strict JSON."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	payload, err := extractJSON(completion)
	if err != nil {
		return nil, err
	}

	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil, apperr.Upstream("AI returned an unusable quiz structure", err)
	}
	if len(questions) == 0 {
		return nil, apperr.Upstream("AI returned an empty quiz", nil)
	}

	return &Quiz{
		FileID:     file.ID,
		Difficulty: difficulty,
		Questions:  questions,
	}, nil
}

/*
UserSummaries lists the caller's documents that carry a stored summary.

Returns:
  - []*SummaryResult: Summaries, newest first
  - error: Storage failures
*/
func (service *Service) UserSummaries(context stdctx.Context, callerID int64) ([]*SummaryResult, error) {
	files, err := service.fileRepository.ListWithSummaries(context, callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*SummaryResult, 0, len(files))
	for _, file := range files {
		summaries = append(summaries, &SummaryResult{
			FileID:      file.ID,
			Filename:    file.Filename,
			Summary:     *file.Summary,
			GeneratedAt: *file.SummaryGeneratedAt,
		})
	}

	return summaries, nil
}

/*
FilesWithSummaries lists the caller's recent uploads with a summary marker.

Description: Backs the summary picker on the dashboard; each row says whether
a summary already exists so the client knows which files need generating.

Parameters:
  - limit: Maximum rows; 0 or negative falls back to defaultPickerLimit

Returns:
  - []*FileOverview: Recent uploads, newest first
  - error: Storage failures
*/
func (service *Service) FilesWithSummaries(context stdctx.Context, callerID int64, limit int) ([]*FileOverview, error) {
	if limit <= 0 {
		limit = defaultPickerLimit
	}

	files, err := service.documents.List(context, callerID, limit)
	if err != nil {
		return nil, err
	}

	overview := make([]*FileOverview, 0, len(files))
	for _, file := range files {
		overview = append(overview, &FileOverview{
			ID:                 file.ID,
			Filename:           file.Filename,
			UploadedAt:         file.UploadedAt,
			HasSummary:         file.HasSummary(),
			SummaryGeneratedAt: file.SummaryGeneratedAt,
		})
	}

	return overview, nil
}

/*
FilesForQuiz lists the caller's recent uploads usable as quiz sources.

Parameters:
  - limit: Maximum rows; 0 or negative falls back to defaultPickerLimit

Returns:
  - []*QuizSource: Recent uploads, newest first
  - error: Storage failures
*/
func (service *Service) FilesForQuiz(context stdctx.Context, callerID int64, limit int) ([]*QuizSource, error) {
	if limit <= 0 {
		limit = defaultPickerLimit
	}

	files, err := service.documents.List(context, callerID, limit)
	if err != nil {
		return nil, err
	}

	sources := make([]*QuizSource, 0, len(files))
	for _, file := range files {
		sources = append(sources, &QuizSource{
			ID:         file.ID,
			Filename:   file.Filename,
			UploadedAt: file.UploadedAt,
		})
	}

	return sources, nil
}

// promptableFile loads an owned document and refuses ones without text.
func (service *Service) promptableFile(context stdctx.Context, callerID, fileID int64) (*document.PDFFile, error) {
	file, err := service.documents.GetOwned(context, callerID, fileID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(file.ExtractedText) == "" {
		return nil, apperr.ValidationError("Document has no extractable text (scanned PDF?)")
	}

	return file, nil
}

// complete runs one chat completion and records its metrics.
func (service *Service) complete(context stdctx.Context, operation string, messages []llm.Message) (string, error) {
	started := service.now()
	completion, err := service.completer.Complete(context, messages)
	metrics.LLMRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "failure").Inc()
		return "", err
	}

	metrics.LLMRequestsTotal.WithLabelValues(operation, "success").Inc()
	return completion, nil
}

// truncateText clips document text to the prompt budget.
func truncateText(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	return text[:maxPromptChars]
}
