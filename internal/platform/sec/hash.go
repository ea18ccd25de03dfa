// Copyright (c) 2026 Study Partner. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Password Hashing

// GoogleOAuthSentinel is the stored password hash of accounts created through
// Google sign-in. It is not a valid bcrypt digest, so password login against
// such an account always fails verification.
const GoogleOAuthSentinel = "GOOGLE_OAUTH_USER"

// HashPassword derives a bcrypt digest from a plaintext password.
//
// bcrypt rejects inputs longer than 72 bytes; the request validator enforces
// a tighter bound upstream, so hitting that limit here is a programming error.
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashBytes), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// digest. A sentinel digest from OAuth-provisioned accounts never matches.
func VerifyPassword(hashedPassword, password string) bool {
	if hashedPassword == GoogleOAuthSentinel {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
