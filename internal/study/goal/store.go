// Copyright (c) 2026 Study Partner. All rights reserved.

package goal

import "context"

// GoalRepository defines the persistence contract for goals.
type GoalRepository interface {
	/*
		Insert persists a new goal and assigns its serial ID.

		Parameters:
		  - context: context.Context
		  - goal: *Goal (ID is populated on success)

		Returns:
		  - error: Storage failures
	*/
	Insert(context context.Context, goal *Goal) error

	/*
		FindByID returns the goal with the given numeric ID.

		Returns:
		  - *Goal: Matching entity
		  - error: NotFound when no such goal exists
	*/
	FindByID(context context.Context, id int64) (*Goal, error)

	/*
		ListByUser returns all of the user's goals ordered by due date.

		Returns:
		  - []*Goal: Goals, soonest due first
		  - error: Storage failures
	*/
	ListByUser(context context.Context, userID int64) ([]*Goal, error)

	/*
		Update persists changes to the goal's mutable fields.

		Returns:
		  - error: NotFound when no such goal exists
	*/
	Update(context context.Context, goal *Goal) error

	/*
		Delete removes the goal row.

		Returns:
		  - error: NotFound when no such goal exists
	*/
	Delete(context context.Context, id int64) error
}
