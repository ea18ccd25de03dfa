// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package quiz persists quiz attempts.

The AI package generates quizzes on the fly; this package records what the
user actually did with them: the question set that was served, the answers
given, and the resulting score. History is reported per document so the
frontend can show progress across repeated attempts.
*/
package quiz

import (
	"encoding/json"
	"time"
)

// QuizSession is one recorded quiz attempt against a document.
type QuizSession struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	FileID int64 `json:"file_id"`

	// QuizData is the served question set, stored verbatim as JSON.
	QuizData json.RawMessage `json:"quiz_data"`

	// UserAnswers is the answer sheet, nil while the attempt is in progress.
	UserAnswers json.RawMessage `json:"user_answers,omitempty"`

	// Score is the number of correct answers, nil until completed.
	Score *int `json:"score,omitempty"`

	TotalQuestions int    `json:"total_questions"`
	Difficulty     string `json:"difficulty"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Percentage returns the attempt's score as a 0–100 figure.
func (session *QuizSession) Percentage() float64 {
	if session.Score == nil || session.TotalQuestions == 0 {
		return 0
	}
	return float64(*session.Score) / float64(session.TotalQuestions) * 100
}

// FileHistory aggregates a user's quiz attempts on one document.
type FileHistory struct {
	FileID        int64      `json:"file_id"`
	Filename      string     `json:"filename"`
	Attempts      int        `json:"attempts"`
	LatestScore   *int       `json:"latest_score,omitempty"`
	LatestTotal   int        `json:"latest_total"`
	Percentage    float64    `json:"percentage"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}
