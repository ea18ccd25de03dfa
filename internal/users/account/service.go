// Copyright (c) 2026 Study Partner. All rights reserved.

package account

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/validate"
)

// Service implements account profile use cases.
type Service struct {
	userRepository UserRepository
}

// NewService constructs a new account [Service].
func NewService(userRepository UserRepository) *Service {
	return &Service{userRepository: userRepository}
}

/*
GetProfile returns the account belonging to the given user ID.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *User: Hydrated entity
  - error: NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID int64) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// # Profile Updates

// UpdateProfileInput carries the patch fields for a profile update.
//
// Nil pointers mean "leave unchanged"; this mirrors the PATCH semantics of
// the HTTP layer.
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Tel       *string
}

/*
UpdateProfile applies a partial update to the user's profile.

Description: Validates the changed fields, checks uniqueness against other
accounts, and persists the result. Unchanged fields keep their values.

Parameters:
  - context: context.Context
  - userID: int64
  - input: UpdateProfileInput

Returns:
  - *User: Updated entity
  - error: Validation, Conflict, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateProfileInput) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Username != nil {
		newUsername := strings.TrimSpace(*input.Username)
		validator.Required(FieldUsername, newUsername).
			MinLen(FieldUsername, newUsername, UsernameMinLen).
			MaxLen(FieldUsername, newUsername, UsernameMaxLen).
			Username(FieldUsername, newUsername)

		if !validator.HasErrors() && newUsername != user.Username {
			if existing, findErr := service.userRepository.FindByUsername(context, newUsername); findErr == nil && existing.ID != userID {
				return nil, apperr.Conflict("Username is already taken")
			}
			user.Username = newUsername
		}
	}

	if input.Email != nil {
		newEmail := strings.TrimSpace(strings.ToLower(*input.Email))
		validator.Required(FieldEmail, newEmail).
			Email(FieldEmail, newEmail)

		if !validator.HasErrors() && newEmail != user.Email {
			if existing, findErr := service.userRepository.FindByEmail(context, newEmail); findErr == nil && existing.ID != userID {
				return nil, apperr.Conflict("Email is already registered")
			}
			user.Email = newEmail
		}
	}

	if input.FirstName != nil {
		newFirstName := strings.TrimSpace(*input.FirstName)
		validator.MaxLen(FieldFirstName, newFirstName, NameMaxLen)
		if !validator.HasErrors() {
			user.FirstName = newFirstName
		}
	}

	if input.LastName != nil {
		newLastName := strings.TrimSpace(*input.LastName)
		validator.MaxLen(FieldLastName, newLastName, NameMaxLen)
		if !validator.HasErrors() {
			user.LastName = newLastName
		}
	}

	if input.Tel != nil {
		newTel := strings.TrimSpace(*input.Tel)
		validator.MaxLen(FieldTel, newTel, TelMaxLen)
		if !validator.HasErrors() {
			user.Tel = newTel
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
DeleteAccount permanently removes the user and all dependent data.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, userID int64) error {
	// Confirm existence so callers get a crisp 404 instead of a silent no-op.
	if _, err := service.userRepository.FindByID(context, userID); err != nil {
		return err
	}

	return service.userRepository.Delete(context, userID)
}

// # Username Reconciliation

/*
ResolveUsername derives a free username from an email address.

Description: The base candidate is the email's local part; when it is taken
by another account a numeric suffix is appended and incremented until a free
name is found ("alice", "alice1", "alice2", ...). The search is bounded so a
pathological dataset cannot spin the loop forever.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: An unclaimed username
  - error: Internal when the suffix space is exhausted, or storage failures
*/
func (service *Service) ResolveUsername(context context.Context, email string) (string, error) {
	base := usernameBase(email)

	candidate := base
	for suffix := 1; suffix <= usernameSuffixLimit; suffix++ {
		_, err := service.userRepository.FindByUsername(context, candidate)
		if err != nil {
			if apperr.As(err) != nil && apperr.As(err).HTTPStatus == 404 {
				return candidate, nil
			}
			return "", err
		}
		candidate = base + strconv.Itoa(suffix)
	}

	return "", apperr.Internal(fmt.Errorf("account: username suffix space exhausted for %q", base))
}

// usernameBase extracts and sanitizes the local part of an email address.
func usernameBase(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}

	local = strings.ToLower(strings.TrimSpace(local))

	// Keep only characters valid in usernames.
	var builder strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			builder.WriteRune(r)
		}
	}

	base := builder.String()
	if len(base) < UsernameMinLen {
		base = "user" + base
	}
	if len(base) > UsernameMaxLen-4 {
		// Reserve room for the numeric collision suffix.
		base = base[:UsernameMaxLen-4]
	}

	return base
}
