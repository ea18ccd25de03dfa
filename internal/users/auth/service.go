// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package auth implements the password-based identity lifecycle.

It handles registration with email verification, credential login, and the
forgot/reset password flow. Session state is a signed token carried in the
sp_session cookie; there is no server-side session table.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Verify, Reset).
  - Repository: The account domain's [account.UserRepository] contract.
  - Security: bcrypt password hashes and HS256-signed session tokens.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/ctxutil"
	"github.com/studypartner/api/internal/platform/metrics"
	"github.com/studypartner/api/internal/platform/sec"
	"github.com/studypartner/api/internal/users/account"
)

// # Contracts & Types

// TokenIssuer defines the contract for generating signed session tokens.
type TokenIssuer interface {
	// Issue creates a signed session token for the given identity.
	Issue(identity sec.TokenIdentity, ttl time.Duration) (string, error)
}

// UsernameResolver derives a free username from an email address. Satisfied
// by [account.Service], which owns the reconciliation rules shared with the
// Google sign-in path.
type UsernameResolver interface {
	ResolveUsername(ctx context.Context, email string) (string, error)
}

// MailSender defines the contract for account lifecycle emails.
//
// Implementations are best-effort; the service fires them from goroutines and
// never fails the originating request on delivery problems.
type MailSender interface {
	SendVerification(ctx context.Context, toEmail, token string) error
	SendPasswordReset(ctx context.Context, toEmail, token string) error
}

// Service implements password authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository account.UserRepository
	usernames      UsernameResolver
	tokenIssuer    TokenIssuer
	mailer         MailSender
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepository account.UserRepository, usernames UsernameResolver, tokenIssuer TokenIssuer, mailer MailSender) *Service {
	return &Service{
		userRepository: userRepository,
		usernames:      usernames,
		tokenIssuer:    tokenIssuer,
		mailer:         mailer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	RealName string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Derives the username from the email's local part (with a
numeric suffix on collision), creates the account in unverified state with a
fresh verification token, then fires the verification email asynchronously.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *account.User: Created entity
  - error: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*account.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	// Verify email uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Colliding usernames are reconciled, never rejected: alice, alice1, ...
	username, err := service.usernames.ResolveUsername(context, email)
	if err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	verificationToken, err := sec.GenerateSecureToken(constants.VerificationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	user := &account.User{
		Username:          username,
		Email:             email,
		FirstName:         strings.TrimSpace(input.RealName),
		PasswordHash:      hashedPassword,
		IsVerified:        false,
		VerificationToken: verificationToken,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("password").Inc()

	// Fire the verification email without blocking the response. The request
	// context dies with the response, so the send gets its own context that
	// only inherits the request logger.
	mailCtx := ctxutil.WithLogger(stdBackground(), ctxutil.GetLogger(context))
	go func() {
		_ = service.mailer.SendVerification(mailCtx, user.Email, verificationToken)
	}()

	return user, nil
}

// stdBackground is a seam for tests that want synchronous mail assertions.
var stdBackground = func() context.Context {
	return context.Background()
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token     string
	ExpiresAt time.Time
	User      *account.User
}

/*
Login validates user credentials and issues a session token.

Description: Verifies identity, performs constant-time password comparison,
and signs a session token for the cookie.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session token and user
  - error: Unauthorized (bad credentials), Forbidden (unverified account),
    or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Flexible login: look up by Email or Username
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(input.Login))
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Constant-time comparison in bcrypt prevents timing attacks. Accounts
	// provisioned through Google sign-in carry a sentinel hash and always fail here.
	if !sec.VerifyPassword(user.PasswordHash, input.Password) {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Accounts stay locked out until the verification link is clicked. Google
	// sign-ups never hit this: they are created verified.
	if !user.IsVerified {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		return nil, apperr.Forbidden("Please verify your email before logging in")
	}

	token, err := service.tokenIssuer.Issue(sec.TokenIdentity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, constants.SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()

	return &LoginSession{
		Token:     token,
		ExpiresAt: time.Now().Add(constants.SessionTokenTTL),
		User:      user,
	}, nil
}

/*
Me returns the fresh account state for an authenticated user.

Description: The session token carries a snapshot of username/email; this
method re-reads the row so profile edits are reflected immediately.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *account.User: Hydrated entity
  - error: NotFound (account deleted since token issuance) or storage failures
*/
func (service *Service) Me(context context.Context, userID int64) (*account.User, error) {
	return service.userRepository.FindByID(context, userID)
}

// # Email Verification

/*
VerifyEmail confirms a user's email address using a secure token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: NotFound for unknown/used tokens, or database errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	user, err := service.userRepository.FindByVerificationToken(context, token)
	if err != nil {
		return err
	}

	if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token, stores it with a one-hour expiry on
the account row, and fires the reset email asynchronously. Unknown emails
succeed silently to prevent user enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Generation or storage errors (never "email unknown")
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(email))
	if err != nil {
		// Pretend success: the response must not reveal whether the email exists.
		return nil
	}

	token, err := sec.GenerateSecureToken(constants.ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(constants.ResetTokenTTL)
	if err := service.userRepository.SetResetToken(context, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	mailCtx := ctxutil.WithLogger(stdBackground(), ctxutil.GetLogger(context))
	go func() {
		_ = service.mailer.SendPasswordReset(mailCtx, user.Email, token)
	}()

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token (including its expiry), hashes the new
password, updates the account, and clears the consumed token.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: NotFound for invalid/expired tokens, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	user, err := service.userRepository.FindByResetToken(context, token)
	if err != nil {
		return apperr.ValidationError("Reset token is invalid or expired")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// One-shot token: clear it so it can never be replayed.
	_ = service.userRepository.ClearResetToken(context, user.ID)

	return nil
}
