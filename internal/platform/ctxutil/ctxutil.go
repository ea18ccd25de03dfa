// Copyright (c) 2026 Study Partner. All rights reserved.

// Package ctxutil provides accessors for values stored in request contexts.
//
// It pairs with ctxkey: middleware writes values through the With* helpers
// and handlers read them back through the Get* helpers, never touching the
// raw keys directly.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/studypartner/api/internal/platform/ctxkey"
	"github.com/studypartner/api/internal/platform/sec"
)

// # Request ID

// WithRequestID stores the correlation id on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, requestID)
}

// GetRequestID returns the correlation id, or "" when none was set.
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return requestID
}

// # Logger

// WithLogger stores the request-scoped logger on the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to the process
// default so callers never receive nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Authenticated User

// WithAuthClaims stores the verified session claims on the context.
func WithAuthClaims(ctx context.Context, claims *sec.SessionClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAuthClaims, claims)
}

// GetAuthClaims returns the verified session claims of the current request,
// or nil when the request is unauthenticated.
func GetAuthClaims(ctx context.Context) *sec.SessionClaims {
	claims, _ := ctx.Value(ctxkey.KeyAuthClaims).(*sec.SessionClaims)
	return claims
}

// GetAuthUserID returns the numeric id of the authenticated user.
//
// The boolean is false when the request carries no valid session or the
// token subject is malformed.
func GetAuthUserID(ctx context.Context) (int64, bool) {
	claims := GetAuthClaims(ctx)
	if claims == nil {
		return 0, false
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, false
	}
	return userID, true
}
