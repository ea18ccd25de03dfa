// Copyright (c) 2026 Study Partner. All rights reserved.

// Package ctxkey defines typed context keys shared across the application.
//
// Keys use an unexported struct-based type so values stored by this module
// can never collide with keys from third-party packages.
package ctxkey

type contextKey struct {
	name string
}

func (k contextKey) String() string {
	return "ctxkey: " + k.name
}

var (
	// KeyRequestID carries the per-request correlation id.
	KeyRequestID = contextKey{"request-id"}

	// KeyLogger carries the request-scoped *slog.Logger.
	KeyLogger = contextKey{"logger"}

	// KeyAuthClaims carries the *sec.SessionClaims of the authenticated user.
	KeyAuthClaims = contextKey{"auth-claims"}
)
