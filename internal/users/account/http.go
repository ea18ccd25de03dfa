// Copyright (c) 2026 Study Partner. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/middleware"
	requestutil "github.com/studypartner/api/internal/platform/request"
	"github.com/studypartner/api/internal/platform/respond"
	"github.com/studypartner/api/internal/platform/validate"
)

// Handler implements profile-related HTTP endpoints.
//
// The create and login endpoints live in the auth package; their handlers
// are injected so legacy clients can keep calling them under /users.
type Handler struct {
	accountService *Service
	registerAlias  http.HandlerFunc
	loginAlias     http.HandlerFunc
}

// NewHandler constructs a new [Handler] with its service dependency and the
// auth endpoints aliased under this router.
func NewHandler(service *Service, registerAlias, loginAlias http.HandlerFunc) *Handler {
	return &Handler{
		accountService: service,
		registerAlias:  registerAlias,
		loginAlias:     loginAlias,
	}
}

// Routes returns a [chi.Router] configured with profile routes.
//
// # Endpoints
//   - POST   /create : Registers an account (alias of POST /auth/register).
//   - POST   /login  : Authenticates (alias of POST /auth/login).
//   - GET    /me     : Returns the authenticated user's profile.
//   - PATCH  /me     : Partially updates the profile.
//   - DELETE /me     : Permanently deletes the account.
//   - GET    /{id}   : Returns a profile; only the owner may read it.
//   - PUT    /{id}   : Updates a profile; only the owner may change it.
//   - DELETE /{id}   : Deletes an account; only the owner may remove it.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/create", handler.registerAlias)
	router.Post("/login", handler.loginAlias)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getProfile)
		r.Patch("/me", handler.updateProfile)
		r.Delete("/me", handler.deleteAccount)
		r.Get("/{id}", handler.getByID)
		r.Put("/{id}", handler.updateByID)
		r.Delete("/{id}", handler.deleteByID)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Tel       *string `json:"tel"`
}

/*
GetProfile returns the authenticated user's account data.

GET /api/users/me

Response:
  - 200: User: Profile of the current user
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile partially updates the authenticated user's profile.

PATCH /api/users/me

Description: Absent JSON fields keep their current values; present fields are
validated and checked for uniqueness.

Request:
  - Body: updateProfileRequest (Username?, Email?, FirstName?, LastName?, Tel?)

Response:
  - 200: User: Updated profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already in use
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Tel:       input.Tel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteAccount permanently removes the authenticated user's account.

DELETE /api/users/me

Description: Hard-deletes the account; uploaded documents, study sessions,
goals, and quiz history cascade away with it.

Response:
  - 204: No Content: Account removed
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Owner-Scoped ID Routes

// ownedID parses the {id} path parameter and rejects callers targeting any
// account other than their own.
func ownedID(request *http.Request) (int64, error) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return 0, err
	}

	targetID, err := requestutil.NumericID(request, "id")
	if err != nil {
		return 0, err
	}

	if targetID != callerID {
		return 0, apperr.Forbidden("You may only access your own account")
	}
	return targetID, nil
}

/*
GetByID returns a profile addressed by numeric ID.

GET /api/users/{id}

Response:
  - 200: User: Profile
  - 403: ErrForbidden: ID belongs to another user
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	userID, err := ownedID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateByID updates a profile addressed by numeric ID.

PUT /api/users/{id}

Description: Same patch semantics as PATCH /me; absent fields keep their
current values.

Response:
  - 200: User: Updated profile
  - 403: ErrForbidden: ID belongs to another user
  - 409: ErrConflict: Username or Email already in use
*/
func (handler *Handler) updateByID(writer http.ResponseWriter, request *http.Request) {
	userID, err := ownedID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Tel:       input.Tel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteByID deletes an account addressed by numeric ID.

DELETE /api/users/{id}

Response:
  - 204: No Content: Account removed
  - 403: ErrForbidden: ID belongs to another user
*/
func (handler *Handler) deleteByID(writer http.ResponseWriter, request *http.Request) {
	userID, err := ownedID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
