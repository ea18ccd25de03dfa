// Copyright (c) 2026 Study Partner. All rights reserved.

// PostgreSQL implementation of the document storage layer.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/dberr"
)

// fileColumns is the canonical SELECT column list for the pdf_files table.
// Extracted text is excluded; list queries would drag megabytes per row.
const fileColumns = `
	id, user_id, name, storage_key, summary, summary_generated_at, uploaded_at`

// PostgresPDFRepository implements the PDFRepository interface using pgx.
type PostgresPDFRepository struct {
	pool *pgxpool.Pool
}

// NewPDFRepository creates a new PostgreSQL implementation of the PDFRepository.
func NewPDFRepository(pool *pgxpool.Pool) *PostgresPDFRepository {
	return &PostgresPDFRepository{pool: pool}
}

// scanFile hydrates a PDFFile from a single-row query result.
func scanFile(row pgx.Row) (*PDFFile, error) {
	file := &PDFFile{}
	err := row.Scan(
		&file.ID,
		&file.UserID,
		&file.Filename,
		&file.ObjectKey,
		&file.Summary,
		&file.SummaryGeneratedAt,
		&file.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return file, nil
}

/*
Insert persists a new document record and populates the serial ID.

Parameters:
  - context: context.Context
  - file: *PDFFile (Entity to persist; ID assigned on success)

Returns:
  - error: Foreign key violations or connectivity errors
*/
func (repository *PostgresPDFRepository) Insert(context context.Context, file *PDFFile) error {
	const query = `
		INSERT INTO pdf_files (user_id, name, storage_key, extracted_text, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := repository.pool.QueryRow(context, query,
		file.UserID,
		file.Filename,
		file.ObjectKey,
		file.ExtractedText,
		file.UploadedAt,
	).Scan(&file.ID)
	if err != nil {
		return dberr.Wrap(err, "Document")
	}

	return nil
}

/*
FindByID fetches a single document by its primary key.

Description: This is the only read that hydrates the extracted text, since
its callers (AI features, downloads) need the full content.

Returns:
  - *PDFFile: Matching entity with extracted text
  - error: NotFound when the row does not exist
*/
func (repository *PostgresPDFRepository) FindByID(context context.Context, id int64) (*PDFFile, error) {
	const query = `
		SELECT id, user_id, name, storage_key, extracted_text,
		       summary, summary_generated_at, uploaded_at
		FROM pdf_files
		WHERE id = $1`

	file := &PDFFile{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&file.ID,
		&file.UserID,
		&file.Filename,
		&file.ObjectKey,
		&file.ExtractedText,
		&file.Summary,
		&file.SummaryGeneratedAt,
		&file.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Document")
		}
		return nil, fmt.Errorf("document_repository_find_by_id_failed: %w", err)
	}

	return file, nil
}

/*
ListByUser fetches the user's documents, newest first.

Returns:
  - []*PDFFile: Documents without extracted text
  - error: Connectivity errors
*/
func (repository *PostgresPDFRepository) ListByUser(context context.Context, userID int64, limit int) ([]*PDFFile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pdf_files
		WHERE user_id = $1
		ORDER BY uploaded_at DESC`, fileColumns)

	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("document_repository_list_failed: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

/*
ListWithSummaries fetches the user's summarized documents, newest summary first.

Returns:
  - []*PDFFile: Documents carrying a non-empty summary
  - error: Connectivity errors
*/
func (repository *PostgresPDFRepository) ListWithSummaries(context context.Context, userID int64) ([]*PDFFile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pdf_files
		WHERE user_id = $1 AND summary IS NOT NULL
		ORDER BY summary_generated_at DESC`, fileColumns)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("document_repository_list_summaries_failed: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

/*
SaveSummary stores an AI-generated summary on the document row.

Returns:
  - error: NotFound when the row does not exist
*/
func (repository *PostgresPDFRepository) SaveSummary(context context.Context, id int64, summary string, generatedAt time.Time) error {
	const query = `
		UPDATE pdf_files
		SET summary = $2, summary_generated_at = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, summary, generatedAt)
	if err != nil {
		return dberr.Wrap(err, "Document")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Document")
	}

	return nil
}

/*
Delete removes the document row.

Returns:
  - error: NotFound when the row does not exist
*/
func (repository *PostgresPDFRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM pdf_files WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "Document")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Document")
	}

	return nil
}

// collectFiles drains a multi-row result set.
func collectFiles(rows pgx.Rows) ([]*PDFFile, error) {
	files := make([]*PDFFile, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("document_repository_scan_failed: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document_repository_rows_failed: %w", err)
	}
	return files, nil
}
