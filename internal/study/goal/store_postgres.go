// Copyright (c) 2026 Study Partner. All rights reserved.

// PostgreSQL implementation of the goal storage layer.
package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/dberr"
)

// goalColumns is the canonical SELECT column list for the goals table.
const goalColumns = `
	id, user_id, name, description, due_date, completed, created_at, updated_at`

// PostgresGoalRepository implements the GoalRepository interface using pgx.
type PostgresGoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new PostgreSQL implementation of the GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) *PostgresGoalRepository {
	return &PostgresGoalRepository{pool: pool}
}

// scanGoal hydrates a Goal from a single-row query result.
func scanGoal(row pgx.Row) (*Goal, error) {
	goal := &Goal{}
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Description,
		&goal.DueDate,
		&goal.Completed,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

/*
Insert persists a new goal record and populates the serial ID.

Parameters:
  - context: context.Context
  - goal: *Goal (Entity to persist; ID assigned on success)

Returns:
  - error: Foreign key violations or connectivity errors
*/
func (repository *PostgresGoalRepository) Insert(context context.Context, goal *Goal) error {
	const query = `
		INSERT INTO goals (user_id, name, description, due_date, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := repository.pool.QueryRow(context, query,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.DueDate,
		goal.Completed,
		goal.CreatedAt,
		goal.UpdatedAt,
	).Scan(&goal.ID)
	if err != nil {
		return dberr.Wrap(err, "Goal")
	}

	return nil
}

/*
FindByID fetches a single goal by its primary key.

Returns:
  - *Goal: Matching entity
  - error: NotFound when the row does not exist
*/
func (repository *PostgresGoalRepository) FindByID(context context.Context, id int64) (*Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1`, goalColumns)

	goal, err := scanGoal(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Goal")
		}
		return nil, fmt.Errorf("goal_repository_find_by_id_failed: %w", err)
	}

	return goal, nil
}

/*
ListByUser fetches all of the user's goals, soonest due first.

Returns:
  - []*Goal: Goals ordered by due date ascending
  - error: Connectivity errors
*/
func (repository *PostgresGoalRepository) ListByUser(context context.Context, userID int64) ([]*Goal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM goals
		WHERE user_id = $1
		ORDER BY due_date ASC, id ASC`, goalColumns)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("goal_repository_list_failed: %w", err)
	}
	defer rows.Close()

	goals := make([]*Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("goal_repository_scan_failed: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goal_repository_rows_failed: %w", err)
	}

	return goals, nil
}

/*
Update persists the goal's mutable fields.

Returns:
  - error: NotFound when the row does not exist
*/
func (repository *PostgresGoalRepository) Update(context context.Context, goal *Goal) error {
	const query = `
		UPDATE goals
		SET name = $2, description = $3, due_date = $4, completed = $5, updated_at = $6
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		goal.ID,
		goal.Name,
		goal.Description,
		goal.DueDate,
		goal.Completed,
		goal.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Goal")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Goal")
	}

	return nil
}

/*
Delete removes the goal row.

Returns:
  - error: NotFound when the row does not exist
*/
func (repository *PostgresGoalRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "Goal")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Goal")
	}

	return nil
}
