// Copyright (c) 2026 Study Partner. All rights reserved.

package quiz

import (
	"context"

	"github.com/studypartner/api/pkg/pagination"
)

// QuizRepository defines the persistence contract for quiz attempts.
type QuizRepository interface {
	/*
		Insert persists a quiz attempt and assigns its serial ID.

		Parameters:
		  - context: context.Context
		  - session: *QuizSession (ID is populated on success)

		Returns:
		  - error: Foreign key violations or connectivity errors
	*/
	Insert(context context.Context, session *QuizSession) error

	/*
		FindByID returns the quiz attempt with the given numeric ID.

		Returns:
		  - *QuizSession: Matching entity
		  - error: NotFound when no such attempt exists
	*/
	FindByID(context context.Context, id int64) (*QuizSession, error)

	/*
		ListByFile returns one page of the user's attempts on one document,
		newest first.

		Parameters:
		  - params: Page-based window applied as LIMIT/OFFSET

		Returns:
		  - []*QuizSession: Attempts ordered by creation time descending
		  - int: Total attempt count across all pages
		  - error: Connectivity errors
	*/
	ListByFile(context context.Context, userID, fileID int64, params pagination.Params) ([]*QuizSession, int, error)

	/*
		History aggregates the user's attempts per document: attempt counts
		plus the latest completed attempt's score.

		Returns:
		  - []*FileHistory: One row per document with attempts, newest first
		  - error: Connectivity errors
	*/
	History(context context.Context, userID int64) ([]*FileHistory, error)
}
