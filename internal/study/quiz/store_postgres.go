// Copyright (c) 2026 Study Partner. All rights reserved.

// PostgreSQL implementation of the quiz attempt storage layer.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/dberr"
	"github.com/studypartner/api/pkg/pagination"
)

// quizColumns is the canonical SELECT column list for the quiz_sessions table.
const quizColumns = `
	id, user_id, file_id, quiz_data, user_answers, score,
	total_questions, difficulty, completed, completed_at, created_at`

// PostgresQuizRepository implements the QuizRepository interface using pgx.
type PostgresQuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new PostgreSQL implementation of the QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *PostgresQuizRepository {
	return &PostgresQuizRepository{pool: pool}
}

// scanQuizSession hydrates a QuizSession from a single-row query result.
func scanQuizSession(row pgx.Row) (*QuizSession, error) {
	session := &QuizSession{}
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.FileID,
		&session.QuizData,
		&session.UserAnswers,
		&session.Score,
		&session.TotalQuestions,
		&session.Difficulty,
		&session.Completed,
		&session.CompletedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

/*
Insert persists a new quiz attempt and populates the serial ID.

Parameters:
  - context: context.Context
  - session: *QuizSession (Entity to persist; ID assigned on success)

Returns:
  - error: NotFound when the referenced document vanished, or connectivity errors
*/
func (repository *PostgresQuizRepository) Insert(context context.Context, session *QuizSession) error {
	const query = `
		INSERT INTO quiz_sessions (
			user_id, file_id, quiz_data, user_answers, score,
			total_questions, difficulty, completed, completed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := repository.pool.QueryRow(context, query,
		session.UserID,
		session.FileID,
		session.QuizData,
		session.UserAnswers,
		session.Score,
		session.TotalQuestions,
		session.Difficulty,
		session.Completed,
		session.CompletedAt,
		session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return dberr.Wrap(err, "Quiz session")
	}

	return nil
}

/*
FindByID fetches a single quiz attempt by its primary key.

Returns:
  - *QuizSession: Matching entity
  - error: NotFound when the row does not exist
*/
func (repository *PostgresQuizRepository) FindByID(context context.Context, id int64) (*QuizSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_sessions WHERE id = $1`, quizColumns)

	session, err := scanQuizSession(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Quiz session")
		}
		return nil, fmt.Errorf("quiz_repository_find_by_id_failed: %w", err)
	}

	return session, nil
}

/*
ListByFile fetches one page of the user's attempts on one document, newest
first, along with the total attempt count for pagination metadata.

Returns:
  - []*QuizSession: Attempts ordered by creation time descending
  - int: Total attempts across all pages
  - error: Connectivity errors
*/
func (repository *PostgresQuizRepository) ListByFile(context context.Context, userID, fileID int64, params pagination.Params) ([]*QuizSession, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM quiz_sessions
		WHERE user_id = $1 AND file_id = $2`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, userID, fileID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quiz_repository_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM quiz_sessions
		WHERE user_id = $1 AND file_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, quizColumns)

	rows, err := repository.pool.Query(context, query, userID, fileID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("quiz_repository_list_failed: %w", err)
	}
	defer rows.Close()

	sessions := make([]*QuizSession, 0)
	for rows.Next() {
		session, err := scanQuizSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("quiz_repository_scan_failed: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("quiz_repository_rows_failed: %w", err)
	}

	return sessions, total, nil
}

/*
History aggregates the user's quiz attempts per document.

Description: One row per document the user took quizzes on, carrying the
attempt count and the most recent attempt's score. The latest attempt is
selected with DISTINCT ON ordered by creation time.

Returns:
  - []*FileHistory: Aggregates ordered by last attempt descending
  - error: Connectivity errors
*/
func (repository *PostgresQuizRepository) History(context context.Context, userID int64) ([]*FileHistory, error) {
	const query = `
		SELECT
			latest.file_id,
			files.name,
			counts.attempts,
			latest.score,
			latest.total_questions,
			latest.created_at
		FROM (
			SELECT DISTINCT ON (file_id)
				file_id, score, total_questions, created_at
			FROM quiz_sessions
			WHERE user_id = $1
			ORDER BY file_id, created_at DESC
		) latest
		JOIN (
			SELECT file_id, COUNT(*) AS attempts
			FROM quiz_sessions
			WHERE user_id = $1
			GROUP BY file_id
		) counts ON counts.file_id = latest.file_id
		JOIN pdf_files files ON files.id = latest.file_id
		ORDER BY latest.created_at DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("quiz_repository_history_failed: %w", err)
	}
	defer rows.Close()

	history := make([]*FileHistory, 0)
	for rows.Next() {
		entry := &FileHistory{}
		err := rows.Scan(
			&entry.FileID,
			&entry.Filename,
			&entry.Attempts,
			&entry.LatestScore,
			&entry.LatestTotal,
			&entry.LastAttemptAt,
		)
		if err != nil {
			return nil, fmt.Errorf("quiz_repository_history_scan_failed: %w", err)
		}
		if entry.LatestScore != nil && entry.LatestTotal > 0 {
			entry.Percentage = float64(*entry.LatestScore) / float64(entry.LatestTotal) * 100
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quiz_repository_history_rows_failed: %w", err)
	}

	return history, nil
}
