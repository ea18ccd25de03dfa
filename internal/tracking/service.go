// Copyright (c) 2026 Study Partner. All rights reserved.

package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/metrics"
)

// Service orchestrates session lifecycle and statistics.
type Service struct {
	sessionRepository SessionRepository

	// now is injectable so tests can pin the clock.
	now func() time.Time
}

// NewService constructs a new tracking [Service].
func NewService(sessionRepository SessionRepository) *Service {
	return &Service{
		sessionRepository: sessionRepository,
		now:               time.Now,
	}
}

/*
Start opens a new activity session for the user.

Description: Several sessions may be open at once for the same user; each
Start call creates a distinct row.

Parameters:
  - context: context.Context
  - userID: int64
  - path: Frontend route the session was started from (may be empty)

Returns:
  - *ActivitySession: Persisted entity with its assigned ID
  - error: Storage failures
*/
func (service *Service) Start(context context.Context, userID int64, path string) (*ActivitySession, error) {
	session := &ActivitySession{
		UserID:    userID,
		Path:      path,
		StartedAt: service.now(),
	}

	if err := service.sessionRepository.Insert(context, session); err != nil {
		return nil, err
	}

	metrics.StudySessionsStartedTotal.Inc()

	return session, nil
}

/*
End closes an open activity session.

Description: The stored duration defaults to the whole seconds elapsed since
the session started; callers may report their own figure instead (a client
that measured active time locally). Either way the value is clamped to ≥ 0.

Parameters:
  - context: context.Context
  - callerID: Authenticated user attempting the close
  - sessionID: int64
  - durationSeconds: Optional client-reported duration

Returns:
  - *ActivitySession: Closed entity
  - error: NotFound (no such session), Forbidden (caller is not the owner),
    Conflict (already closed), or storage failures
*/
func (service *Service) End(context context.Context, callerID, sessionID int64, durationSeconds *int64) (*ActivitySession, error) {
	session, err := service.sessionRepository.FindByID(context, sessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != callerID {
		return nil, apperr.Forbidden("Session belongs to another user")
	}

	if !session.Open() {
		return nil, apperr.Conflict("Session is already ended")
	}

	endedAt := service.now()

	duration := int64(endedAt.Sub(session.StartedAt).Seconds())
	if durationSeconds != nil {
		duration = *durationSeconds
	}
	if duration < 0 {
		duration = 0
	}

	if err := service.sessionRepository.Close(context, session.ID, endedAt, duration); err != nil {
		return nil, fmt.Errorf("tracking_service_close_failed: %w", err)
	}

	metrics.StudySessionDuration.Observe(float64(duration))

	session.EndedAt = &endedAt
	session.DurationSeconds = &duration
	return session, nil
}

/*
Aggregate computes the user's study statistics.

Description: "Today" is anchored at local midnight, "week" is a rolling
7×24 h window. A closed session contributes its stored duration when it
ended inside the window; an open session contributes its live elapsed time
when it started inside the window. An open session that started before the
window boundary contributes nothing, even if most of it overlaps the window.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *Stats: Today/week totals plus the last completed session's duration
  - error: Storage failures
*/
func (service *Service) Aggregate(context context.Context, userID int64) (*Stats, error) {
	now := service.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)

	// One query per window keeps the contribution rule in a single place here
	// instead of splitting it between Go and SQL.
	sessions, err := service.sessionRepository.OverlappingSince(context, userID, weekStart)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	for _, session := range sessions {
		stats.WeekSeconds += service.contribution(session, weekStart, now)
		stats.TodaySeconds += service.contribution(session, todayStart, now)
	}

	last, err := service.sessionRepository.LastCompleted(context, userID)
	switch appErr := apperr.As(err); {
	case err == nil:
		stats.LastSessionSeconds = last.StoredDuration()
	case appErr != nil && appErr.HTTPStatus == 404:
		// No completed sessions yet; the stat stays zero.
	default:
		return nil, err
	}

	return stats, nil
}

// contribution returns the seconds a session adds to a window starting at
// windowStart. Closed sessions qualify by end time, open ones by start time.
func (service *Service) contribution(session *ActivitySession, windowStart, now time.Time) int64 {
	if session.Open() {
		if session.StartedAt.Before(windowStart) {
			return 0
		}
		elapsed := int64(now.Sub(session.StartedAt).Seconds())
		if elapsed < 0 {
			return 0
		}
		return elapsed
	}

	if session.EndedAt.Before(windowStart) {
		return 0
	}
	return session.StoredDuration()
}
