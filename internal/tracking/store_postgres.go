// Copyright (c) 2026 Study Partner. All rights reserved.

// PostgreSQL implementation of the session storage layer.
package tracking

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

// sessionColumns is the canonical SELECT column list for the user_sessions table.
const sessionColumns = `
	id, user_id, COALESCE(path, ''), started_at, ended_at, duration_seconds`

// PostgresSessionRepository implements the SessionRepository interface using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of the SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// scanSession hydrates an ActivitySession from a single-row query result.
func scanSession(row pgx.Row) (*ActivitySession, error) {
	session := &ActivitySession{}
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Path,
		&session.StartedAt,
		&session.EndedAt,
		&session.DurationSeconds,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

/*
Insert persists a new session record and populates the serial ID.

Parameters:
  - context: context.Context
  - session: *ActivitySession (Entity to persist; ID assigned on success)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresSessionRepository) Insert(context context.Context, session *ActivitySession) error {
	const query = `
		INSERT INTO user_sessions (user_id, path, started_at)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id`

	err := repository.pool.QueryRow(context, query,
		session.UserID,
		session.Path,
		session.StartedAt,
	).Scan(&session.ID)
	if err != nil {
		return dberr.Wrap(err, "Session")
	}

	return nil
}

/*
FindByID fetches a single session by its primary key.

Returns:
  - *ActivitySession: Matching entity
  - error: NotFound when the row does not exist
*/
func (repository *PostgresSessionRepository) FindByID(context context.Context, id int64) (*ActivitySession, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_sessions WHERE id = $1`, sessionColumns)

	session, err := scanSession(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("tracking_repository_find_by_id_failed: %w", err)
	}

	return session, nil
}

/*
Close stamps the end time and duration on an open session row.

Returns:
  - error: NotFound when the row does not exist
*/
func (repository *PostgresSessionRepository) Close(context context.Context, id int64, endedAt time.Time, durationSeconds int64) error {
	const query = `
		UPDATE user_sessions
		SET ended_at = $2, duration_seconds = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, endedAt, durationSeconds)
	if err != nil {
		return dberr.Wrap(err, "Session")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Session")
	}

	return nil
}

/*
OverlappingSince loads the sessions counting toward a stats window.

Description: Closed sessions qualify by their end time, open sessions by
their start time. Sessions that started before the window and are still open
are deliberately excluded.

Returns:
  - []*ActivitySession: Qualifying sessions, unordered
  - error: Connectivity errors
*/
func (repository *PostgresSessionRepository) OverlappingSince(context context.Context, userID int64, windowStart time.Time) ([]*ActivitySession, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM user_sessions
		WHERE user_id = $1
		  AND (
			(ended_at IS NOT NULL AND ended_at >= $2)
			OR (ended_at IS NULL AND started_at >= $2)
		  )`, sessionColumns)

	rows, err := repository.pool.Query(context, query, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("tracking_repository_window_query_failed: %w", err)
	}
	defer rows.Close()

	sessions := make([]*ActivitySession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("tracking_repository_window_scan_failed: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tracking_repository_window_rows_failed: %w", err)
	}

	return sessions, nil
}

/*
LastCompleted fetches the user's most recently closed session.

Returns:
  - *ActivitySession: Latest closed entity
  - error: NotFound when the user has no closed sessions
*/
func (repository *PostgresSessionRepository) LastCompleted(context context.Context, userID int64) (*ActivitySession, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM user_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
		ORDER BY ended_at DESC
		LIMIT 1`, sessionColumns)

	session, err := scanSession(repository.pool.QueryRow(context, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("tracking_repository_last_completed_failed: %w", err)
	}

	return session, nil
}
