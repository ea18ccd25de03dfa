// Copyright (c) 2026 Study Partner. All rights reserved.

package tracking

import (
	"context"
	"time"
)

// SessionRepository defines the persistence contract for activity sessions.
type SessionRepository interface {
	/*
		Insert persists a freshly started session and assigns its serial ID.

		Parameters:
		  - context: context.Context
		  - session: *ActivitySession (ID is populated on success)

		Returns:
		  - error: Storage failures
	*/
	Insert(context context.Context, session *ActivitySession) error

	/*
		FindByID returns the session with the given numeric ID.

		Returns:
		  - *ActivitySession: Matching entity
		  - error: NotFound when no such session exists
	*/
	FindByID(context context.Context, id int64) (*ActivitySession, error)

	/*
		Close stamps the session's end time and stored duration.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - endedAt: time.Time
		  - durationSeconds: int64

		Returns:
		  - error: NotFound when no such session exists
	*/
	Close(context context.Context, id int64, endedAt time.Time, durationSeconds int64) error

	/*
		OverlappingSince returns the user's sessions that count toward a window
		starting at windowStart: closed sessions that ended at or after it plus
		open sessions that started at or after it.

		Returns:
		  - []*ActivitySession: Sessions in the window, unordered
		  - error: Storage failures
	*/
	OverlappingSince(context context.Context, userID int64, windowStart time.Time) ([]*ActivitySession, error)

	/*
		LastCompleted returns the user's most recently closed session.

		Returns:
		  - *ActivitySession: Latest closed entity
		  - error: NotFound when the user never completed a session
	*/
	LastCompleted(context context.Context, userID int64) (*ActivitySession, error)
}
