// Copyright (c) 2026 Study Partner. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// # Random Tokens

// GenerateSecureToken returns a hex-encoded random string built from
// byteLength bytes of CSPRNG output. The resulting string is twice
// byteLength characters long.
//
// It backs email verification tokens, password reset tokens and OAuth
// state values.
func GenerateSecureToken(byteLength int) (string, error) {
	randomBytes := make([]byte, byteLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}
