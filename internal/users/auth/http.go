// Copyright (c) 2026 Study Partner. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
	"github.com/studypartner/api/internal/users/account"
)

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service

	// frontendURL is the redirect target after email verification.
	frontendURL string

	// secureCookies marks session cookies Secure; disabled for plain-HTTP dev.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, frontendURL string, secureCookies bool) *Handler {
	return &Handler{
		authService:   service,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates a new account and sends verification mail.
//   - POST /login           : Authenticates and sets the session cookie.
//   - POST /logout          : Clears the session cookie.
//   - GET  /me              : Returns the authenticated user.
//   - GET  /verify          : Confirms an email verification token (link target).
//   - POST /forgot-password : Starts password recovery.
//   - POST /reset-password  : Completes password recovery.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/verify", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// RegisterEndpoint exposes the register handler so the composition root can
// alias it under another router (POST /users/create).
func (handler *Handler) RegisterEndpoint() http.HandlerFunc {
	return handler.register
}

// LoginEndpoint exposes the login handler so the composition root can alias
// it under another router (POST /users/login).
func (handler *Handler) LoginEndpoint() http.HandlerFunc {
	return handler.login
}

// # Request Payloads

type registerRequest struct {
	RealName string `json:"real_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// # Cookie Management

// SetSessionCookie writes the sp_session cookie carrying the signed token.
//
// Exposed so the Google OAuth callback handler can establish the same session.
func SetSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the sp_session cookie immediately.
func ClearSessionCookie(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Description: Validates input, rejects duplicate emails, derives a free
username from the email's local part, persists the new user profile, and
dispatches the verification email.

Request:
  - Body: registerRequest (RealName, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(account.FieldRealName, input.RealName).
		MaxLen(account.FieldRealName, input.RealName, account.NameMaxLen).
		Required(account.FieldEmail, input.Email).
		Email(account.FieldEmail, input.Email).
		Required(account.FieldPassword, input.Password).
		MinLen(account.FieldPassword, input.Password, account.PasswordMinLen)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		RealName: input.RealName,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/auth/login

Description: Verifies credentials, signs a session token, and injects the
sp_session cookie into the response.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Session: User profile (token travels in the cookie)
  - 401: ErrUnauthorized: Invalid credentials
  - 403: ErrForbidden: Email not verified yet
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("login", input.Login)
	validator.Required(account.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	SetSessionCookie(writer, session.Token, session.ExpiresAt, handler.secureCookies)

	respond.OK(writer, map[string]any{
		"user": session.User,
	})
}

/*
Logout terminates the current session.

POST /api/auth/logout

Description: Session tokens are stateless, so logout is purely a cookie
clear on the client; the response is identical for authenticated and
anonymous callers.

Response:
  - 204: No Content: Cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	ClearSessionCookie(writer, handler.secureCookies)
	respond.NoContent(writer)
}

/*
Me returns the authenticated user's fresh account state.

GET /api/auth/me

Response:
  - 200: User: Current profile
  - 401: ErrUnauthorized: Session missing, invalid, or account deleted
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
VerifyEmail confirms a user's email ownership.

GET /api/auth/verify?token=...

Description: This is the target of the link in the verification email, so it
answers with a browser redirect to the frontend rather than JSON.

Response:
  - 302: Redirect to frontend with ?verified=1 on success, ?verified=0 otherwise
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get(account.FieldToken)

	if token == "" {
		http.Redirect(writer, request, handler.frontendURL+"/login?verified=0", http.StatusFound)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), token); err != nil {
		http.Redirect(writer, request, handler.frontendURL+"/login?verified=0", http.StatusFound)
		return
	}

	http.Redirect(writer, request, handler.frontendURL+"/login?verified=1", http.StatusFound)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/auth/forgot-password

Description: Sends a password reset link to the provided email if the account
exists. The response is identical either way to prevent enumeration.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic confirmation message
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(account.FieldEmail, input.Email).Email(account.FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		account.FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/auth/reset-password

Description: Validates the reset token and updates the user's password.

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Success: Password updated
  - 400: ErrInvalidJSON: Invalid/expired token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(account.FieldToken, input.Token).
		Required(account.FieldPassword, input.Password).
		MinLen(account.FieldPassword, input.Password, account.PasswordMinLen)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		account.FieldMessage: "Password updated successfully",
	})
}
