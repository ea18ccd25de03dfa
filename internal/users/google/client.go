// Copyright (c) 2026 Study Partner. All rights reserved.

package google

import (
	stdctx "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
)

// Google OAuth 2.0 endpoints.
const (
	authEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// maxProviderResponseBytes caps how much of a provider response we will read.
const maxProviderResponseBytes = 1 << 20

// Profile is the subset of Google's userinfo payload the platform needs.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// IdentityProvider abstracts the Google OAuth endpoints for testing.
type IdentityProvider interface {
	// AuthCodeURL builds the browser redirect URL that starts the consent flow.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(context stdctx.Context, code string) (string, error)

	// FetchProfile retrieves the user's profile with an access token.
	FetchProfile(context stdctx.Context, accessToken string) (*Profile, error)
}

// Client talks to Google's OAuth 2.0 endpoints over HTTPS.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// NewClient constructs a Google OAuth [Client].
//
// An empty clientID disables the integration: every call fails with an
// upstream error instead of a confusing round trip to Google.
func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient: &http.Client{
			Timeout: constants.OAuthExchangeTimeout,
		},
	}
}

// Configured reports whether Google credentials are present.
func (client *Client) Configured() bool {
	return client.clientID != ""
}

// AuthCodeURL builds the Google consent screen URL carrying our CSRF state.
func (client *Client) AuthCodeURL(state string) string {
	query := url.Values{}
	query.Set("client_id", client.clientID)
	query.Set("redirect_uri", client.redirectURI)
	query.Set("response_type", "code")
	query.Set("scope", "openid email profile")
	query.Set("state", state)
	query.Set("access_type", "online")

	return authEndpoint + "?" + query.Encode()
}

/*
Exchange trades an authorization code for a Google access token.

Parameters:
  - context: context.Context
  - code: Authorization code from the callback query string

Returns:
  - string: Bearer access token
  - error: Upstream failures (Google rejected the code, network trouble)
*/
func (client *Client) Exchange(context stdctx.Context, code string) (string, error) {
	if !client.Configured() {
		return "", apperr.Upstream("Google sign-in is not configured", nil)
	}

	form := url.Values{}
	form.Set("client_id", client.clientID)
	form.Set("client_secret", client.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", client.redirectURI)

	request, err := http.NewRequestWithContext(context, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("google_token_request_build_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", apperr.Upstream("Google token exchange failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxProviderResponseBytes))
	if err != nil {
		return "", apperr.Upstream("Google token exchange failed", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", apperr.Upstream("Google rejected the authorization code", nil)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.AccessToken == "" {
		return "", apperr.Upstream("Google returned an unusable token response", err)
	}

	return payload.AccessToken, nil
}

/*
FetchProfile retrieves the signed-in user's Google profile.

Parameters:
  - context: context.Context
  - accessToken: Bearer token from [Client.Exchange]

Returns:
  - *Profile: Verified identity data
  - error: Upstream failures or a profile with no usable email
*/
func (client *Client) FetchProfile(context stdctx.Context, accessToken string) (*Profile, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("google_userinfo_request_build_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.Upstream("Google profile fetch failed", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, apperr.Upstream("Google profile fetch failed", nil)
	}

	var profile Profile
	if err := json.NewDecoder(io.LimitReader(response.Body, maxProviderResponseBytes)).Decode(&profile); err != nil {
		return nil, apperr.Upstream("Google returned an unusable profile response", err)
	}

	if profile.Email == "" {
		return nil, apperr.Upstream("Google profile is missing an email address", nil)
	}

	return &profile, nil
}
