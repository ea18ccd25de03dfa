// Copyright (c) 2026 Study Partner. All rights reserved.

package google

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/ctxutil"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/users/auth"
)

// Handler implements the browser-facing endpoints of the Google sign-in flow.
type Handler struct {
	googleService *Service
	frontendURL   string
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, frontendURL string, secureCookies bool) *Handler {
	return &Handler{
		googleService: service,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

// Routes returns a [chi.Router] configured with Google OAuth routes.
//
// # Endpoints
//   - GET /login     : Redirects the browser to Google's consent screen.
//   - GET /login_url : Returns the consent URL as JSON instead of redirecting.
//   - GET /callback  : Lands the browser after consent and establishes a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/login", handler.login)
	router.Get("/login_url", handler.loginURL)
	router.Get("/callback", handler.callback)

	return router
}

/*
Login starts the Google sign-in flow.

GET /api/auth/google/login

Response:
  - 302: Redirect to Google's consent screen
  - 502: ErrUpstream: Integration not configured or state storage unavailable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	redirectURL, err := handler.googleService.BeginLogin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, redirectURL, http.StatusFound)
}

/*
LoginURL returns the consent URL without redirecting.

GET /api/auth/google/login_url

Description: Lets SPA clients and manual testing fetch the authorize URL as
JSON; the state token is issued and stored the same way as /login.

Response:
  - 200: {"url": string}
  - 502: ErrUpstream: Integration not configured or state storage unavailable
*/
func (handler *Handler) loginURL(writer http.ResponseWriter, request *http.Request) {
	redirectURL, err := handler.googleService.BeginLogin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"url": redirectURL})
}

/*
Callback lands the browser after the Google consent screen.

GET /api/auth/google/callback?state=...&code=...

Description: The response is a browser redirect either way: to the app on
success (with the sp_session cookie set) or to the login page with an error
marker on failure. JSON would dead-end the user on a blank page.

Response:
  - 302: Redirect to the frontend
*/
func (handler *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	// Google reports consent denial via an error parameter instead of a code.
	if query.Get("error") != "" || query.Get("code") == "" {
		http.Redirect(writer, request, handler.frontendURL+"/login?error=google_denied", http.StatusFound)
		return
	}

	session, err := handler.googleService.CompleteLogin(request.Context(), query.Get("state"), query.Get("code"))
	if err != nil {
		ctxutil.GetLogger(request.Context()).Warn("google sign-in failed", "error", err)
		http.Redirect(writer, request, handler.frontendURL+"/login?error=google_failed", http.StatusFound)
		return
	}

	auth.SetSessionCookie(writer, session.Token, session.ExpiresAt, handler.secureCookies)
	http.Redirect(writer, request, handler.frontendURL+"/dashboard", http.StatusFound)
}
