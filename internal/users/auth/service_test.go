// Copyright (c) 2026 Study Partner. All rights reserved.

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/sec"
	"github.com/studypartner/api/internal/users/account"
)

// fakeUserRepository is an in-memory account.UserRepository for service tests.
type fakeUserRepository struct {
	users  map[int64]*account.User
	nextID int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]*account.User)}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id int64) (*account.User, error) {
	if user, ok := f.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*account.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *account.User) error {
	f.nextID++
	user.ID = f.nextID
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *account.User) error {
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

func (f *fakeUserRepository) FindByVerificationToken(_ context.Context, token string) (*account.User, error) {
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

func (f *fakeUserRepository) FindByResetToken(_ context.Context, token string) (*account.User, error) {
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

// fakeTokenIssuer signs nothing; it records the identity it was asked to sign.
type fakeTokenIssuer struct {
	issued sec.TokenIdentity
}

func (f *fakeTokenIssuer) Issue(identity sec.TokenIdentity, _ time.Duration) (string, error) {
	f.issued = identity
	return "signed-token", nil
}

// recordingMailer captures async sends so tests can wait on them.
type recordingMailer struct {
	verifications chan string
	resets        chan string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{
		verifications: make(chan string, 1),
		resets:        make(chan string, 1),
	}
}

func (m *recordingMailer) SendVerification(_ context.Context, email, token string) error {
	m.verifications <- email + "|" + token
	return nil
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.resets <- email + "|" + token
	return nil
}

func waitForMail(t *testing.T, mail chan string) string {
	t.Helper()
	select {
	case sent := <-mail:
		return sent
	case <-time.After(2 * time.Second):
		t.Fatal("expected a mail to be sent")
		return ""
	}
}

func newTestService(t *testing.T) (*Service, *fakeUserRepository, *fakeTokenIssuer, *recordingMailer) {
	t.Helper()
	repo := newFakeUserRepository()
	issuer := &fakeTokenIssuer{}
	mailer := newRecordingMailer()
	return NewService(repo, account.NewService(repo), issuer, mailer), repo, issuer, mailer
}

func registerTestUser(t *testing.T, service *Service, mailer *recordingMailer) *account.User {
	t.Helper()
	user, err := service.Register(context.Background(), RegisterInput{
		RealName: "Alice Tester",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	waitForMail(t, mailer.verifications)
	return user
}

// registerVerifiedUser enrolls the standard test user and clicks through the
// verification link so login tests start from a usable account.
func registerVerifiedUser(t *testing.T, service *Service, mailer *recordingMailer) *account.User {
	t.Helper()
	user := registerTestUser(t, service, mailer)
	require.NoError(t, service.VerifyEmail(context.Background(), user.VerificationToken))
	return user
}

// # Registration

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	service, repo, _, mailer := newTestService(t)

	user := registerTestUser(t, service, mailer)

	require.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username, "username derives from the email local part")
	assert.Equal(t, "alice@example.com", user.Email, "email must be lowercased")
	assert.Equal(t, "Alice Tester", user.FirstName)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.True(t, sec.VerifyPassword(user.PasswordHash, "correct-horse"))
	assert.False(t, sec.VerifyPassword(user.PasswordHash, "wrong"))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.VerificationToken, stored.VerificationToken)
}

func TestRegister_SendsVerificationMail(t *testing.T) {
	service, _, _, mailer := newTestService(t)

	user, err := service.Register(context.Background(), RegisterInput{
		RealName: "Bob",
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	sent := waitForMail(t, mailer.verifications)
	assert.Equal(t, "bob@example.com|"+user.VerificationToken, sent)
}

func TestRegister_EmailConflict(t *testing.T) {
	service, _, _, mailer := newTestService(t)
	registerTestUser(t, service, mailer)

	_, err := service.Register(context.Background(), RegisterInput{
		RealName: "Someone Else",
		Email:    "alice@example.com",
		Password: "irrelevant1",
	})

	require.Error(t, err)
	assert.Equal(t, 409, apperr.As(err).HTTPStatus)
}

func TestRegister_ReconcilesTakenUsername(t *testing.T) {
	service, _, _, mailer := newTestService(t)
	registerTestUser(t, service, mailer) // claims "alice"

	user, err := service.Register(context.Background(), RegisterInput{
		RealName: "Other Alice",
		Email:    "alice@other.com",
		Password: "irrelevant1",
	})
	require.NoError(t, err, "a taken username is reconciled, not rejected")
	waitForMail(t, mailer.verifications)

	assert.Equal(t, "alice1", user.Username)
}

// # Login

func TestLogin_ByEmail(t *testing.T) {
	service, _, issuer, mailer := newTestService(t)
	user := registerVerifiedUser(t, service, mailer)

	session, err := service.Login(context.Background(), LoginInput{
		Login:    "ALICE@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", session.Token)
	assert.Equal(t, user.ID, session.User.ID)
	assert.Equal(t, user.ID, issuer.issued.UserID)
	assert.Equal(t, "alice", issuer.issued.Username)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), session.ExpiresAt, time.Minute)
}

func TestLogin_ByUsername(t *testing.T) {
	service, _, _, mailer := newTestService(t)
	registerVerifiedUser(t, service, mailer)

	session, err := service.Login(context.Background(), LoginInput{
		Login:    "alice",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", session.User.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _, _, mailer := newTestService(t)
	registerTestUser(t, service, mailer)

	_, err := service.Login(context.Background(), LoginInput{
		Login:    "alice",
		Password: "not-it",
	})

	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestLogin_UnverifiedAccountForbidden(t *testing.T) {
	service, _, _, mailer := newTestService(t)
	registerTestUser(t, service, mailer) // never verifies

	_, err := service.Login(context.Background(), LoginInput{
		Login:    "alice@example.com",
		Password: "correct-horse",
	})

	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)
	assert.Contains(t, apperr.As(err).Message, "verify your email")
}

func TestLogin_UnknownUser(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.Login(context.Background(), LoginInput{
		Login:    "nobody@example.com",
		Password: "whatever1",
	})

	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestLogin_GoogleProvisionedAccountRejected(t *testing.T) {
	service, repo, _, _ := newTestService(t)

	require.NoError(t, repo.Create(context.Background(), &account.User{
		Username:     "carol",
		Email:        "carol@example.com",
		PasswordHash: sec.GoogleOAuthSentinel,
		IsVerified:   true,
	}))

	_, err := service.Login(context.Background(), LoginInput{
		Login:    "carol@example.com",
		Password: sec.GoogleOAuthSentinel,
	})

	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

// # Email Verification

func TestVerifyEmail_MarksVerified(t *testing.T) {
	service, repo, _, mailer := newTestService(t)
	user := registerTestUser(t, service, mailer)

	require.NoError(t, service.VerifyEmail(context.Background(), user.VerificationToken))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Empty(t, stored.VerificationToken, "token must be single-use")
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	service, _, _, _ := newTestService(t)

	err := service.VerifyEmail(context.Background(), "deadbeef")

	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

// # Password Recovery

func TestRequestPasswordReset_StoresTokenAndSendsMail(t *testing.T) {
	service, repo, _, mailer := newTestService(t)
	user := registerTestUser(t, service, mailer)

	require.NoError(t, service.RequestPasswordReset(context.Background(), "Alice@Example.com"))

	sent := waitForMail(t, mailer.resets)
	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ResetToken)
	assert.Equal(t, "alice@example.com|"+stored.ResetToken, sent)
	require.NotNil(t, stored.ResetTokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetTokenExpiresAt, time.Minute)
}

func TestRequestPasswordReset_UnknownEmailSucceedsSilently(t *testing.T) {
	service, _, _, mailer := newTestService(t)

	require.NoError(t, service.RequestPasswordReset(context.Background(), "ghost@example.com"))

	select {
	case sent := <-mailer.resets:
		t.Fatalf("no mail expected for unknown email, got %q", sent)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestResetPassword_UpdatesHashAndConsumesToken(t *testing.T) {
	service, repo, _, mailer := newTestService(t)
	user := registerVerifiedUser(t, service, mailer)

	require.NoError(t, service.RequestPasswordReset(context.Background(), user.Email))
	waitForMail(t, mailer.resets)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	token := stored.ResetToken

	require.NoError(t, service.ResetPassword(context.Background(), token, "brand-new-pass"))

	_, err = service.Login(context.Background(), LoginInput{Login: "alice", Password: "brand-new-pass"})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{Login: "alice", Password: "correct-horse"})
	require.Error(t, err, "old password must stop working")

	err = service.ResetPassword(context.Background(), token, "yet-another-pass")
	require.Error(t, err, "token must be single-use")
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	service, repo, _, mailer := newTestService(t)
	user := registerTestUser(t, service, mailer)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, repo.SetResetToken(context.Background(), user.ID, "expired-token", expired))

	err := service.ResetPassword(context.Background(), "expired-token", "whatever-pass")

	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}
