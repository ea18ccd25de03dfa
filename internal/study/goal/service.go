// Copyright (c) 2026 Study Partner. All rights reserved.

package goal

import (
	stdctx "context"
	"strings"
	"time"

	"github.com/studypartner/api/internal/platform/apperr"
)

// Service orchestrates goal CRUD and statistics.
type Service struct {
	goalRepository GoalRepository

	now func() time.Time
}

// NewService constructs a new goal [Service].
func NewService(goalRepository GoalRepository) *Service {
	return &Service{
		goalRepository: goalRepository,
		now:            time.Now,
	}
}

// CreateInput describes a new goal.
type CreateInput struct {
	Name        string
	Description *string
	DueDate     string // YYYY-MM-DD
}

// UpdateInput carries a partial goal update. Nil fields keep their current value.
type UpdateInput struct {
	Name        *string
	Description *string
	DueDate     *string // YYYY-MM-DD
	Completed   *bool
}

/*
Create persists a new goal for the user.

Parameters:
  - context: context.Context
  - userID: int64
  - input: CreateInput

Returns:
  - *Goal: Persisted entity with its assigned ID
  - error: ValidationError for a malformed due date, or storage failures
*/
func (service *Service) Create(context stdctx.Context, userID int64, input CreateInput) (*Goal, error) {
	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	now := service.now()
	goal := &Goal{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DueDate:     dueDate,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.goalRepository.Insert(context, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

/*
List returns all of the user's goals, soonest due first.

Returns:
  - []*Goal: The user's goals
  - error: Storage failures
*/
func (service *Service) List(context stdctx.Context, userID int64) ([]*Goal, error) {
	return service.goalRepository.ListByUser(context, userID)
}

/*
Get returns one goal after verifying ownership.

Returns:
  - *Goal: Matching entity
  - error: NotFound for missing goals, Forbidden for foreign ones
*/
func (service *Service) Get(context stdctx.Context, callerID, goalID int64) (*Goal, error) {
	goal, err := service.goalRepository.FindByID(context, goalID)
	if err != nil {
		return nil, err
	}

	if goal.UserID != callerID {
		return nil, apperr.Forbidden("Goal belongs to another user")
	}

	return goal, nil
}

/*
Update applies a partial update to an owned goal.

Description: Only the fields present in the input change; the rest keep
their stored values. Setting Completed works in both directions, so a goal
can be reopened.

Parameters:
  - context: context.Context
  - callerID: Authenticated user
  - goalID: int64
  - input: UpdateInput

Returns:
  - *Goal: Updated entity
  - error: NotFound, Forbidden, ValidationError, or storage failures
*/
func (service *Service) Update(context stdctx.Context, callerID, goalID int64, input UpdateInput) (*Goal, error) {
	goal, err := service.Get(context, callerID, goalID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.ValidationError("Goal name cannot be empty")
		}
		goal.Name = name
	}
	if input.Description != nil {
		goal.Description = input.Description
	}
	if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		goal.DueDate = dueDate
	}
	if input.Completed != nil {
		goal.Completed = *input.Completed
	}

	goal.UpdatedAt = service.now()

	if err := service.goalRepository.Update(context, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

/*
Delete removes an owned goal.

Returns:
  - error: NotFound for missing goals, Forbidden for foreign ones
*/
func (service *Service) Delete(context stdctx.Context, callerID, goalID int64) error {
	goal, err := service.Get(context, callerID, goalID)
	if err != nil {
		return err
	}

	return service.goalRepository.Delete(context, goal.ID)
}

/*
Statistics computes the user's goal statistics.

Returns:
  - *Stats: Totals, completion rate, and chart breakdown
  - error: Storage failures
*/
func (service *Service) Statistics(context stdctx.Context, userID int64) (*Stats, error) {
	goals, err := service.goalRepository.ListByUser(context, userID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	stats := &Stats{Total: len(goals)}
	for _, goal := range goals {
		switch {
		case goal.Completed:
			stats.Completed++
		case goal.Overdue(now):
			stats.Overdue++
		default:
			stats.Pending++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}

	stats.ChartData = []StatusCount{
		{Label: "completed", Count: stats.Completed},
		{Label: "pending", Count: stats.Pending},
		{Label: "overdue", Count: stats.Overdue},
	}

	return stats, nil
}

// parseDueDate parses a YYYY-MM-DD due date into midnight UTC.
func parseDueDate(value string) (time.Time, error) {
	dueDate, err := time.Parse(DueDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.ValidationError("Due date must be in YYYY-MM-DD format")
	}
	return dueDate, nil
}
