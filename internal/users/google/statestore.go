// Copyright (c) 2026 Study Partner. All rights reserved.

package google

import (
	stdctx "context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/sec"
)

// StateStore issues and redeems the CSRF state tokens of the OAuth dance.
type StateStore interface {
	// Issue mints a fresh state token valid for [constants.OAuthStateTTL].
	Issue(context stdctx.Context) (string, error)

	// Consume validates a returned state token and invalidates it. A state
	// can be redeemed exactly once.
	Consume(context stdctx.Context, state string) error
}

// RedisStateStore keeps state tokens in Redis so callbacks can land on any
// replica of the API.
type RedisStateStore struct {
	client *redis.Client
}

// NewStateStore constructs a Redis-backed [StateStore].
func NewStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

/*
Issue mints a new OAuth state token and stores it with a TTL.

Returns:
  - string: Hex-encoded state token
  - error: Token generation or Redis write failures
*/
func (store *RedisStateStore) Issue(context stdctx.Context) (string, error) {
	state, err := sec.GenerateSecureToken(constants.OAuthStateLength)
	if err != nil {
		return "", fmt.Errorf("google_state_generate_failed: %w", err)
	}

	key := constants.RedisPrefixOAuthState + state
	if err := store.client.Set(context, key, "1", constants.OAuthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("google_state_store_failed: %w", err)
	}

	return state, nil
}

/*
Consume redeems a state token returned by Google's callback.

Description: Uses GETDEL so the token is atomically invalidated; a replayed
or expired state is indistinguishable from a forged one.

Returns:
  - error: Unauthorized when the state is unknown, expired, or already used
*/
func (store *RedisStateStore) Consume(context stdctx.Context, state string) error {
	if state == "" {
		return apperr.Unauthorized("Invalid OAuth state")
	}

	key := constants.RedisPrefixOAuthState + state
	if err := store.client.GetDel(context, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.Unauthorized("Invalid OAuth state")
		}
		return fmt.Errorf("google_state_consume_failed: %w", err)
	}

	return nil
}
