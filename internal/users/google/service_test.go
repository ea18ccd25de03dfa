// Copyright (c) 2026 Study Partner. All rights reserved.

package google

import (
	stdctx "context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/sec"
	"github.com/studypartner/api/internal/users/account"
)

// fakeUserRepository is a minimal in-memory account.UserRepository.
type fakeUserRepository struct {
	users  map[int64]*account.User
	nextID int64

	// findByEmailErr, when set, overrides FindByEmail results.
	findByEmailErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]*account.User)}
}

func (f *fakeUserRepository) FindByID(_ stdctx.Context, id int64) (*account.User, error) {
	if user, ok := f.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ stdctx.Context, email string) (*account.User, error) {
	if f.findByEmailErr != nil {
		return nil, f.findByEmailErr
	}

	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(_ stdctx.Context, username string) (*account.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ stdctx.Context, user *account.User) error {
	f.nextID++
	user.ID = f.nextID
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepository) Update(_ stdctx.Context, user *account.User) error { return nil }

func (f *fakeUserRepository) UpdatePassword(_ stdctx.Context, _ int64, _ string) error { return nil }

func (f *fakeUserRepository) Delete(_ stdctx.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) FindByVerificationToken(_ stdctx.Context, _ string) (*account.User, error) {
	return nil, apperr.NotFound("Verification token")
}

func (f *fakeUserRepository) MarkVerified(_ stdctx.Context, _ int64) error { return nil }

func (f *fakeUserRepository) SetResetToken(_ stdctx.Context, _ int64, _ string, _ time.Time) error {
	return nil
}

func (f *fakeUserRepository) FindByResetToken(_ stdctx.Context, _ string) (*account.User, error) {
	return nil, apperr.NotFound("Reset token")
}

func (f *fakeUserRepository) ClearResetToken(_ stdctx.Context, _ int64) error { return nil }

// fakeProvider plays Google: a fixed code and token resolve to one profile.
type fakeProvider struct {
	profile     *Profile
	exchangeErr error
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example/consent?state=" + state
}

func (p *fakeProvider) Exchange(_ stdctx.Context, code string) (string, error) {
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	if code != "good-code" {
		return "", apperr.Upstream("Google rejected the authorization code", nil)
	}
	return "access-token", nil
}

func (p *fakeProvider) FetchProfile(_ stdctx.Context, accessToken string) (*Profile, error) {
	if accessToken != "access-token" {
		return nil, apperr.Upstream("Google profile fetch failed", nil)
	}
	return p.profile, nil
}

// fakeStateStore hands out sequential states and tracks redemption.
type fakeStateStore struct {
	issued   []string
	consumed map[string]bool
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{consumed: make(map[string]bool)}
}

func (s *fakeStateStore) Issue(_ stdctx.Context) (string, error) {
	state := "state-" + time.Now().Format("150405.000000000")
	s.issued = append(s.issued, state)
	return state, nil
}

func (s *fakeStateStore) Consume(_ stdctx.Context, state string) error {
	for _, issued := range s.issued {
		if issued == state && !s.consumed[state] {
			s.consumed[state] = true
			return nil
		}
	}
	return apperr.Unauthorized("Invalid OAuth state")
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(_ sec.TokenIdentity, _ time.Duration) (string, error) {
	return "signed-token", nil
}

func newTestService(profile *Profile) (*Service, *fakeUserRepository, *fakeStateStore) {
	repo := newFakeUserRepository()
	states := newFakeStateStore()
	service := NewService(
		repo,
		account.NewService(repo),
		&fakeProvider{profile: profile},
		states,
		fakeTokenIssuer{},
	)
	return service, repo, states
}

func beginLogin(t *testing.T, service *Service, states *fakeStateStore) string {
	t.Helper()
	_, err := service.BeginLogin(stdctx.Background())
	require.NoError(t, err)
	require.NotEmpty(t, states.issued)
	return states.issued[len(states.issued)-1]
}

func TestCompleteLogin_ProvisionsNewAccount(t *testing.T) {
	service, repo, states := newTestService(&Profile{
		ID:    "google-123",
		Email: "Dana@Example.com",
		Name:  "Dana",
	})
	state := beginLogin(t, service, states)

	session, err := service.CompleteLogin(stdctx.Background(), state, "good-code")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", session.Token)
	assert.Equal(t, "dana@example.com", session.User.Email)
	assert.Equal(t, "dana", session.User.Username)
	assert.Equal(t, "Dana", session.User.FirstName, "google profile name lands on the account")
	assert.True(t, session.User.IsVerified, "google-owned mailboxes skip verification")

	stored, err := repo.FindByID(stdctx.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.GoogleOAuthSentinel, stored.PasswordHash)
	assert.False(t, sec.VerifyPassword(stored.PasswordHash, sec.GoogleOAuthSentinel),
		"sentinel hash must never verify as a password")
}

func TestCompleteLogin_ReusesExistingAccountByEmail(t *testing.T) {
	service, repo, states := newTestService(&Profile{Email: "erin@example.com"})

	existing := &account.User{
		Username:     "erin",
		Email:        "erin@example.com",
		PasswordHash: "$2a$10$password-hash",
		IsVerified:   true,
	}
	require.NoError(t, repo.Create(stdctx.Background(), existing))

	state := beginLogin(t, service, states)
	session, err := service.CompleteLogin(stdctx.Background(), state, "good-code")

	require.NoError(t, err)
	assert.Equal(t, existing.ID, session.User.ID)
	assert.Equal(t, "$2a$10$password-hash", session.User.PasswordHash,
		"google sign-in must not clobber an existing password")
}

func TestCompleteLogin_UsernameCollisionGetsSuffix(t *testing.T) {
	service, repo, states := newTestService(&Profile{Email: "frank@other.com"})

	require.NoError(t, repo.Create(stdctx.Background(), &account.User{
		Username: "frank",
		Email:    "frank@example.com",
	}))

	state := beginLogin(t, service, states)
	session, err := service.CompleteLogin(stdctx.Background(), state, "good-code")

	require.NoError(t, err)
	assert.Equal(t, "frank1", session.User.Username)
}

func TestCompleteLogin_LookupFailureDoesNotProvision(t *testing.T) {
	service, repo, states := newTestService(&Profile{Email: "gina@example.com"})
	lookupErr := errors.New("postgres_user_repo_find_by_email_failed: connection reset")
	repo.findByEmailErr = lookupErr

	state := beginLogin(t, service, states)
	_, err := service.CompleteLogin(stdctx.Background(), state, "good-code")

	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr, "transient lookup failures must surface as-is")
	assert.Empty(t, repo.users, "no account may be created on a failed lookup")
}

func TestCompleteLogin_RejectsUnknownState(t *testing.T) {
	service, _, _ := newTestService(&Profile{Email: "x@example.com"})

	_, err := service.CompleteLogin(stdctx.Background(), "forged-state", "good-code")

	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestCompleteLogin_StateIsSingleUse(t *testing.T) {
	service, _, states := newTestService(&Profile{Email: "gina@example.com"})
	state := beginLogin(t, service, states)

	_, err := service.CompleteLogin(stdctx.Background(), state, "good-code")
	require.NoError(t, err)

	_, err = service.CompleteLogin(stdctx.Background(), state, "good-code")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestCompleteLogin_BadCodeSurfacesUpstreamError(t *testing.T) {
	service, _, states := newTestService(&Profile{Email: "hank@example.com"})
	state := beginLogin(t, service, states)

	_, err := service.CompleteLogin(stdctx.Background(), state, "bad-code")

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}
