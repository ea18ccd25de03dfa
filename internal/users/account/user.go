// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package account implements the user account domain.

It defines the core User entity and the profile lifecycle (lookup, profile
updates, deletion), plus the username reconciliation rules shared by password
registration and Google sign-in provisioning.

# Architecture

This layer is the "Truth" of the system for identity data. Entities defined
here have no external dependencies and encapsulate all business rules related
to user accounts.
*/
package account

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Study Partner platform.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// Optional profile fields, editable through the profile update endpoints.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Tel       string `json:"tel"`

	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	IsVerified   bool   `json:"is_verified"`

	// VerificationToken is set at registration and cleared on verification.
	VerificationToken string `json:"-"`

	// ResetToken and its expiry drive the forgot-password flow.
	ResetToken          string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRealName  = "real_name"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldTel       = "tel"
	FieldToken     = "token"
	FieldMessage   = "message"
)

// # Constraints

const (
	// UsernameMinLen and UsernameMaxLen bound account usernames.
	UsernameMinLen = 3
	UsernameMaxLen = 30

	// PasswordMinLen is the minimum accepted password length.
	PasswordMinLen = 8

	// NameMaxLen and TelMaxLen bound the optional profile fields.
	NameMaxLen = 100
	TelMaxLen  = 32

	// usernameSuffixLimit bounds the reconciliation loop that appends numeric
	// suffixes to colliding usernames. Exhausting it is pathological and
	// surfaces as an internal error rather than an infinite loop.
	usernameSuffixLimit = 5000
)
