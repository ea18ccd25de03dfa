// Copyright (c) 2026 Study Partner. All rights reserved.

package quiz

import (
	stdctx "context"
	"encoding/json"
	"time"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/study/document"
	"github.com/studypartner/api/pkg/pagination"
)

// Service orchestrates quiz attempt recording and history.
type Service struct {
	quizRepository QuizRepository
	documents      *document.Service

	now func() time.Time
}

// NewService constructs a new quiz [Service].
func NewService(quizRepository QuizRepository, documents *document.Service) *Service {
	return &Service{
		quizRepository: quizRepository,
		documents:      documents,
		now:            time.Now,
	}
}

// SaveInput describes a quiz attempt to record.
type SaveInput struct {
	FileID         int64
	QuizData       json.RawMessage
	UserAnswers    json.RawMessage
	Score          *int
	TotalQuestions int
	Difficulty     string
	Completed      bool
}

/*
Save records a quiz attempt against one of the caller's documents.

Description: The document must belong to the caller; the question set is
stored verbatim so past attempts survive even after the document's text or
summary changes. A completed attempt gets its completion timestamp here.

Parameters:
  - context: context.Context
  - callerID: Authenticated user
  - input: SaveInput

Returns:
  - *QuizSession: Persisted attempt with its assigned ID
  - error: NotFound (foreign or missing document), ValidationError, or storage failures
*/
func (service *Service) Save(context stdctx.Context, callerID int64, input SaveInput) (*QuizSession, error) {
	if _, err := service.documents.GetOwned(context, callerID, input.FileID); err != nil {
		return nil, err
	}

	if input.Score != nil && (*input.Score < 0 || *input.Score > input.TotalQuestions) {
		return nil, apperr.ValidationError("Score must be between 0 and the number of questions")
	}

	session := &QuizSession{
		UserID:         callerID,
		FileID:         input.FileID,
		QuizData:       input.QuizData,
		UserAnswers:    input.UserAnswers,
		Score:          input.Score,
		TotalQuestions: input.TotalQuestions,
		Difficulty:     input.Difficulty,
		Completed:      input.Completed,
		CreatedAt:      service.now(),
	}
	if input.Completed {
		completedAt := service.now()
		session.CompletedAt = &completedAt
	}

	if err := service.quizRepository.Insert(context, session); err != nil {
		return nil, err
	}

	return session, nil
}

/*
Get returns one quiz attempt after verifying ownership.

Description: Foreign attempts answer NotFound so the API does not confirm
the existence of other users' IDs.

Returns:
  - *QuizSession: Matching attempt
  - error: NotFound for missing or foreign attempts
*/
func (service *Service) Get(context stdctx.Context, callerID, sessionID int64) (*QuizSession, error) {
	session, err := service.quizRepository.FindByID(context, sessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != callerID {
		return nil, apperr.NotFound("Quiz session")
	}

	return session, nil
}

/*
FileAttempts lists one page of the caller's attempts on one document,
newest first.

Parameters:
  - params: Page window; clamped by the pagination package at the handler

Returns:
  - []*QuizSession: Attempts on the document
  - pagination.Meta: Page metadata including the total attempt count
  - error: NotFound for foreign documents, or storage failures
*/
func (service *Service) FileAttempts(context stdctx.Context, callerID, fileID int64, params pagination.Params) ([]*QuizSession, pagination.Meta, error) {
	if _, err := service.documents.GetOwned(context, callerID, fileID); err != nil {
		return nil, pagination.Meta{}, err
	}

	sessions, total, err := service.quizRepository.ListByFile(context, callerID, fileID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return sessions, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
History aggregates the caller's attempts per document.

Returns:
  - []*FileHistory: Attempt counts and latest scores, newest first
  - error: Storage failures
*/
func (service *Service) History(context stdctx.Context, callerID int64) ([]*FileHistory, error) {
	return service.quizRepository.History(context, callerID)
}
