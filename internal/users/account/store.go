// Copyright (c) 2026 Study Partner. All rights reserved.

package account

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given numeric ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account and assigns its serial ID.

		Parameters:
		  - context: context.Context
		  - user: *User (ID is populated on success)

		Returns:
		  - error: Persistence failures, including unique violations
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields (username, email).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	/*
		Delete permanently removes the account row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id int64) error

	/*
		FindByVerificationToken resolves a pending verification token to its account.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound if the token is unknown or already used
	*/
	FindByVerificationToken(context context.Context, token string) (*User, error)

	/*
		MarkVerified flips the account to verified and clears its verification token.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID int64) error

	/*
		SetResetToken stores the password reset token and its expiry on the account row.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - token: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID int64, token string, expiresAt time.Time) error

	/*
		FindByResetToken resolves an unexpired reset token to its account.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound if the token is unknown or expired
	*/
	FindByResetToken(context context.Context, token string) (*User, error)

	/*
		ClearResetToken removes any pending reset token from the account row.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Persistence failures
	*/
	ClearResetToken(context context.Context, userID int64) error
}
