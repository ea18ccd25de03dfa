// Copyright (c) 2026 Study Partner. All rights reserved.

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via narrow interfaces.
package sec

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Errors

var (
	// ErrTokenExpired marks a structurally valid token whose expiry has passed.
	ErrTokenExpired = errors.New("sec: session token expired")

	// ErrTokenInvalid marks a malformed token or a signature mismatch.
	//
	// Handlers must never distinguish it from [ErrTokenExpired] in responses;
	// both map to the same generic unauthenticated reply to avoid giving a
	// validation oracle to attackers.
	ErrTokenInvalid = errors.New("sec: session token invalid")
)

// # Claims

// SessionClaims is the payload embedded inside a signed session token.
//
// # Why custom claims?
//
// By embedding Username and Email next to the standard subject, request
// handlers can resolve the active user WITHOUT querying the database on
// every single API request. The frontend middleware decodes the same shape.
type SessionClaims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserID parses the numeric user id out of the token subject.
func (c *SessionClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sec: non-numeric token subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// # Token Codec

// TokenIdentity is the minimal user projection a token carries.
type TokenIdentity struct {
	UserID   int64
	Username string
	Email    string
}

// TokenCodec issues and verifies HS256-signed session tokens.
//
// Tokens are stateless: validity is determined purely by signature and expiry,
// there is no server-side revocation list.
type TokenCodec struct {
	secret []byte

	// now is injectable for deterministic expiry tests.
	now func() time.Time
}

// NewTokenCodec creates a codec signing with the given process-wide secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue creates a signed session token for the user, valid for ttl.
//
// A non-positive ttl falls back to the 7-day default used by the session cookie.
func (codec *TokenCodec) Issue(identity TokenIdentity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	currentTime := codec.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
		Username: identity.Username,
		Email:    identity.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a session token string.
//
// It returns [ErrTokenExpired] for an expired token and [ErrTokenInvalid]
// for anything else that fails validation.
func (codec *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(codec.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
