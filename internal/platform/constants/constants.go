// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session cookie configuration and token lifetimes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "studypartner-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Uploads of full PDF documents need headroom here.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// LLM completions can take tens of seconds end-to-end.
	DefaultWriteTimeout = 90 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # External Collaborator Timing

const (
	// OAuthExchangeTimeout bounds the Google code-for-token exchange and
	// userinfo fetch.
	OAuthExchangeTimeout = 15 * time.Second

	// LLMRequestTimeout bounds a single chat-completion round trip.
	LLMRequestTimeout = 60 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// SessionCookieName is the cookie that carries the signed session token.
	// The frontend middleware reads the same name.
	SessionCookieName = "sp_session"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// SessionTokenTTL is the default validity of a session token and its cookie.
	SessionTokenTTL = 7 * 24 * time.Hour

	// VerificationTokenLength is the byte length of the email verification token.
	VerificationTokenLength = 32

	// ResetTokenLength is the byte length of the password reset token.
	ResetTokenLength = 32

	// ResetTokenTTL is how long a password reset token stays redeemable.
	ResetTokenTTL = 1 * time.Hour

	// OAuthStateLength is the byte length of the OAuth CSRF state token.
	OAuthStateLength = 16

	// OAuthStateTTL is how long an issued OAuth state stays valid in Redis.
	OAuthStateTTL = 10 * time.Minute
)

// # Uploads

const (
	// MaxUploadBytes caps the size of a single uploaded PDF document.
	MaxUploadBytes = 20 << 20

	// RecentFilesLimit is how many documents the dashboard's recent list shows.
	RecentFilesLimit = 5
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixOAuthState = "auth:oauth_state:"
)
