// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package goal implements study goal CRUD and statistics.

Goals are simple dated todos: a name, an optional description, a due date,
and a completed flag. Statistics classify each goal as completed, pending,
or overdue (past due and not completed) and feed the dashboard chart.
*/
package goal

import "time"

// DueDateLayout is the wire format for goal due dates.
const DueDateLayout = "2006-01-02"

// Field identifiers used in validation messages.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
)

// Goal is one study goal owned by a single user.
type Goal struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	// DueDate is date-only; the time component is always midnight UTC.
	DueDate time.Time `json:"due_date"`

	Completed bool `json:"completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overdue reports whether the goal is past due and not completed.
func (goal *Goal) Overdue(now time.Time) bool {
	if goal.Completed {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return goal.DueDate.Before(today)
}

// Stats summarizes a user's goals for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`

	// CompletionRate is completed/total as a 0–100 figure; 0 with no goals.
	CompletionRate float64 `json:"completion_rate"`

	// ChartData is the status breakdown in a shape chart libraries consume directly.
	ChartData []StatusCount `json:"chart_data"`
}

// StatusCount is one slice of the goal status chart.
type StatusCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
