// Copyright (c) 2026 Study Partner. All rights reserved.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/studypartner/api/internal/platform/constants"
	"github.com/studypartner/api/internal/platform/ctxutil"
	"github.com/studypartner/api/internal/platform/sec"
)

type fakeVerifier struct {
	claims *sec.SessionClaims
	err    error
}

func (f *fakeVerifier) Verify(string) (*sec.SessionClaims, error) {
	return f.claims, f.err
}

func claimsForUser(id string) *sec.SessionClaims {
	return &sec.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id},
		Username:         "tester",
		Email:            "tester@example.com",
	}
}

func TestAuthenticate_Anonymous(t *testing.T) {
	verifier := &fakeVerifier{err: sec.ErrTokenInvalid}

	var sawClaims *sec.SessionClaims
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawClaims = ctxutil.GetAuthClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, sawClaims)
}

func TestAuthenticate_ValidCookie(t *testing.T) {
	verifier := &fakeVerifier{claims: claimsForUser("12")}

	var sawID int64
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawID, _ = ctxutil.GetAuthUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "some-token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(12), sawID)
}

func TestAuthenticate_InvalidCookieRejected(t *testing.T) {
	verifier := &fakeVerifier{err: sec.ErrTokenExpired}

	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an invalid session")
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "expired-token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticate_BearerFallback(t *testing.T) {
	verifier := &fakeVerifier{claims: claimsForUser("7")}

	var sawID int64
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawID, _ = ctxutil.GetAuthUserID(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer some-token")

	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, int64(7), sawID)
}

func TestAuthenticate_MalformedAuthorizationHeader(t *testing.T) {
	verifier := &fakeVerifier{claims: claimsForUser("7")}

	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a malformed header")
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Token abc")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAuth(t *testing.T) {
	protected := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous request is blocked.
	recorder := httptest.NewRecorder()
	protected.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Authenticated request passes through.
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthClaims(request.Context(), claimsForUser("3")))

	recorder = httptest.NewRecorder()
	protected.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
