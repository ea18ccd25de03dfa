// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package google implements sign-in with Google as an alternative identity path.

The flow is the standard authorization-code dance: the API mints a CSRF state
token, sends the browser to Google's consent screen, and on callback trades
the authorization code for the user's verified profile. First-time visitors
are provisioned with a reconciled username and a sentinel password hash so
the password login path can never match them.

Architecture:

  - Client: HTTPS calls to Google's token and userinfo endpoints.
  - StateStore: One-shot CSRF state tokens in Redis.
  - Service: Account lookup/provisioning and session issuance.
*/
package google

import (
	stdctx "context"
	"strings"
	"time"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/ctxutil"
	"github.com/studypartner/api/internal/platform/metrics"
	"github.com/studypartner/api/internal/platform/sec"
	"github.com/studypartner/api/internal/users/account"
	"github.com/studypartner/api/internal/users/auth"
)

// Service orchestrates the Google sign-in flow.
type Service struct {
	userRepository account.UserRepository
	accountService *account.Service
	provider       IdentityProvider
	states         StateStore
	tokenIssuer    auth.TokenIssuer
}

// NewService constructs a new Google sign-in [Service].
func NewService(
	userRepository account.UserRepository,
	accountService *account.Service,
	provider IdentityProvider,
	states StateStore,
	tokenIssuer auth.TokenIssuer,
) *Service {
	return &Service{
		userRepository: userRepository,
		accountService: accountService,
		provider:       provider,
		states:         states,
		tokenIssuer:    tokenIssuer,
	}
}

/*
BeginLogin starts the OAuth dance.

Description: Mints a one-shot CSRF state token and builds the Google consent
screen URL the browser should be redirected to.

Parameters:
  - context: context.Context

Returns:
  - string: Absolute redirect URL to Google's consent screen
  - error: State generation or storage failures
*/
func (service *Service) BeginLogin(context stdctx.Context) (string, error) {
	state, err := service.states.Issue(context)
	if err != nil {
		return "", err
	}

	return service.provider.AuthCodeURL(state), nil
}

/*
CompleteLogin finishes the OAuth dance after Google's callback.

Description: Redeems the CSRF state, exchanges the authorization code for the
user's profile, finds or provisions the matching account, and issues a
session token. Accounts created here are verified immediately (Google owns
the mailbox) and carry a sentinel password hash.

Parameters:
  - context: context.Context
  - state: CSRF state token from the callback query string
  - code: Authorization code from the callback query string

Returns:
  - *auth.LoginSession: Transport-ready session token and user
  - error: Unauthorized (bad state), Upstream (Google trouble), or storage errors
*/
func (service *Service) CompleteLogin(context stdctx.Context, state, code string) (*auth.LoginSession, error) {
	if err := service.states.Consume(context, state); err != nil {
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return nil, err
	}

	accessToken, err := service.provider.Exchange(context, code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return nil, err
	}

	profile, err := service.provider.FetchProfile(context, accessToken)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return nil, err
	}

	user, err := service.findOrProvision(context, profile)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return nil, err
	}

	token, err := service.tokenIssuer.Issue(sec.TokenIdentity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, constants.SessionTokenTTL)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("google", "success").Inc()

	return &auth.LoginSession{
		Token:     token,
		ExpiresAt: time.Now().Add(constants.SessionTokenTTL),
		User:      user,
	}, nil
}

// findOrProvision returns the existing account for the profile's email or
// creates a fresh one with a reconciled username.
func (service *Service) findOrProvision(context stdctx.Context, profile *Profile) (*account.User, error) {
	email := strings.ToLower(profile.Email)

	// Returning visitor: the Google identity attaches to the existing account
	// by email, whichever path originally created it.
	user, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return user, nil
	}

	// Only a confirmed missing row may trigger provisioning. A transient
	// storage failure here would otherwise turn into a duplicate create.
	if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != 404 {
		return nil, err
	}

	username, err := service.accountService.ResolveUsername(context, email)
	if err != nil {
		return nil, err
	}

	user = &account.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(profile.Name),
		PasswordHash: sec.GoogleOAuthSentinel,
		IsVerified:   true,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("google").Inc()
	ctxutil.GetLogger(context).Info("provisioned account from google sign-in",
		"user_id", user.ID,
		"username", user.Username,
	)

	return user, nil
}
