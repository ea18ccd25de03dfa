// Copyright (c) 2026 Study Partner. All rights reserved.

package document

import (
	"context"
	"time"
)

// PDFRepository defines the persistence contract for uploaded documents.
type PDFRepository interface {
	/*
		Insert persists a freshly uploaded document and assigns its serial ID.

		Parameters:
		  - context: context.Context
		  - file: *PDFFile (ID is populated on success)

		Returns:
		  - error: Storage failures
	*/
	Insert(context context.Context, file *PDFFile) error

	/*
		FindByID returns the document with the given numeric ID, including its
		extracted text.

		Returns:
		  - *PDFFile: Matching entity
		  - error: NotFound when no such document exists
	*/
	FindByID(context context.Context, id int64) (*PDFFile, error)

	/*
		ListByUser returns the user's documents, newest first. Extracted text
		is omitted from list results.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - limit: Maximum rows; 0 means no limit

		Returns:
		  - []*PDFFile: Documents ordered by upload time descending
		  - error: Storage failures
	*/
	ListByUser(context context.Context, userID int64, limit int) ([]*PDFFile, error)

	/*
		ListWithSummaries returns the user's documents that have an AI summary,
		newest summary first.

		Returns:
		  - []*PDFFile: Summarized documents
		  - error: Storage failures
	*/
	ListWithSummaries(context context.Context, userID int64) ([]*PDFFile, error)

	/*
		SaveSummary stores the AI-generated summary on the document row.

		Returns:
		  - error: NotFound when no such document exists
	*/
	SaveSummary(context context.Context, id int64, summary string, generatedAt time.Time) error

	/*
		Delete removes the document row.

		Returns:
		  - error: NotFound when no such document exists
	*/
	Delete(context context.Context, id int64) error
}
