// Copyright (c) 2026 Study Partner. All rights reserved.

package account

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/pkg/pointer"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	users  map[int64]*User
	nextID atomic.Int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]*User)}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id int64) (*User, error) {
	if user, ok := f.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}
	user.ID = f.nextID.Add(1)
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	if user, ok := f.users[userID]; ok {
		user.PasswordHash = newHash
		return nil
	}
	return apperr.NotFound("User")
}

func (f *fakeUserRepository) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) FindByVerificationToken(_ context.Context, token string) (*User, error) {
	for _, user := range f.users {
		if token != "" && user.VerificationToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Verification token")
}

func (f *fakeUserRepository) MarkVerified(_ context.Context, userID int64) error {
	if user, ok := f.users[userID]; ok {
		user.IsVerified = true
		user.VerificationToken = ""
		return nil
	}
	return apperr.NotFound("User")
}

func (f *fakeUserRepository) SetResetToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	if user, ok := f.users[userID]; ok {
		user.ResetToken = token
		user.ResetTokenExpiresAt = &expiresAt
		return nil
	}
	return apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByResetToken(_ context.Context, token string) (*User, error) {
	for _, user := range f.users {
		if token != "" && user.ResetToken == token &&
			user.ResetTokenExpiresAt != nil && user.ResetTokenExpiresAt.After(time.Now()) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Reset token")
}

func (f *fakeUserRepository) ClearResetToken(_ context.Context, userID int64) error {
	if user, ok := f.users[userID]; ok {
		user.ResetToken = ""
		user.ResetTokenExpiresAt = nil
		return nil
	}
	return apperr.NotFound("User")
}

// seedUser inserts a user directly into the fake store.
func seedUser(t *testing.T, repo *fakeUserRepository, username, email string) *User {
	t.Helper()
	user := &User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestResolveUsername_FreeBase(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	username, err := service.ResolveUsername(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestResolveUsername_NumericSuffixOnCollision(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	seedUser(t, repo, "alice", "other@example.com")

	username, err := service.ResolveUsername(context.Background(), "alice@studypartner.app")
	require.NoError(t, err)
	assert.Equal(t, "alice1", username)

	// Claim alice1 too and resolve again.
	seedUser(t, repo, "alice1", "third@example.com")

	username, err = service.ResolveUsername(context.Background(), "alice@elsewhere.io")
	require.NoError(t, err)
	assert.Equal(t, "alice2", username)
}

func TestResolveUsername_ShortLocalPart(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	// A two-character local part is below the minimum username length.
	username, err := service.ResolveUsername(context.Background(), "ab@example.com")
	require.NoError(t, err)
	assert.Equal(t, "userab", username)
}

func TestResolveUsername_StripsInvalidCharacters(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	username, err := service.ResolveUsername(context.Background(), "Al+ice!@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestUpdateProfile_PatchSemantics(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	user := seedUser(t, repo, "carol", "carol@example.com")

	// Only the username changes; email stays untouched.
	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username: pointer.To("carol_new"),
	})
	require.NoError(t, err)
	assert.Equal(t, "carol_new", updated.Username)
	assert.Equal(t, "carol@example.com", updated.Email)
}

func TestUpdateProfile_ContactFields(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	user := seedUser(t, repo, "carol", "carol@example.com")

	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		FirstName: pointer.To("Carol"),
		LastName:  pointer.To("Jones"),
		Tel:       pointer.To("+49 30 1234567"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", updated.FirstName)
	assert.Equal(t, "Jones", updated.LastName)
	assert.Equal(t, "+49 30 1234567", updated.Tel)
	assert.Equal(t, "carol", updated.Username, "untouched fields keep their values")

	// A later patch on one field leaves the others alone.
	updated, err = service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Tel: pointer.To(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", updated.FirstName)
	assert.Empty(t, updated.Tel)
}

func TestUpdateProfile_UsernameConflict(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	seedUser(t, repo, "taken", "taken@example.com")
	user := seedUser(t, repo, "dave", "dave@example.com")

	_, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username: pointer.To("taken"),
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

func TestUpdateProfile_InvalidEmail(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	user := seedUser(t, repo, "erin", "erin@example.com")

	_, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: pointer.To("not-an-email"),
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestDeleteAccount_UnknownUser(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewService(repo)

	err := service.DeleteAccount(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
