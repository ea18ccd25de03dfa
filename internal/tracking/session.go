// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package tracking implements study time accounting.

A user opens an [ActivitySession] when they start studying and closes it when
they stop; the stored duration feeds the daily and weekly statistics on the
dashboard. Multiple sessions may be open at once for the same user (two
browser tabs are two sessions), so there is deliberately no single-open
constraint.

Aggregation windows are start-anchored: a session counts toward a window when
its relevant anchor (ended_at for closed sessions, started_at for live ones)
falls inside the window, never by prorating overlap.
*/
package tracking

import "time"

// ActivitySession is one contiguous stretch of study time.
type ActivitySession struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	// Path is the frontend route the session was started from, when known.
	Path string `json:"path,omitempty"`

	StartedAt time.Time `json:"started_at"`

	// EndedAt is nil while the session is still open.
	EndedAt *time.Time `json:"ended_at,omitempty"`

	// DurationSeconds is set when the session closes. It is usually the
	// wall-clock elapsed time but clients may report their own figure.
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

// Open reports whether the session has not been closed yet.
func (session *ActivitySession) Open() bool {
	return session.EndedAt == nil
}

// StoredDuration returns the closed session's duration, clamped to ≥ 0.
// Rows closed without a duration count as zero.
func (session *ActivitySession) StoredDuration() int64 {
	if session.DurationSeconds == nil || *session.DurationSeconds < 0 {
		return 0
	}
	return *session.DurationSeconds
}

// Stats is the aggregate payload served by GET /session/stats.
type Stats struct {
	TodaySeconds       int64 `json:"today_seconds"`
	WeekSeconds        int64 `json:"week_seconds"`
	LastSessionSeconds int64 `json:"last_session_seconds"`
}
