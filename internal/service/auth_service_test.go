package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"userhub/api/internal/config"
	"userhub/api/internal/mocks"
	"userhub/api/internal/models"
	"userhub/api/internal/repository"
	"userhub/api/internal/security"
	"userhub/api/internal/testutil"
)

func authTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTSecret: "test-secret",
			JWTTTL:    time.Minute,
		},
	}
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	hasher := &mocks.PasswordHasher{}

	user := models.User{ID: 7, Email: "a@x.com", PasswordHash: []byte("h"), Status: true}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	hasher.On("Verify", "p4ssword", []byte("h")).Return(true)
	sessions.On("Create", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.UserID == 7 && s.ID != "" && s.IPAddress == "10.0.0.1"
	})).Return(nil)
	sessions.On("CountByUser", mock.Anything, int64(7)).Return(3, nil)

	s := NewAuthService(users, sessions, hasher, authTestConfig(), testutil.Logger())

	result, err := s.Login(ctx, LoginInput{Email: "A@x.com", Password: "p4ssword", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.User.ID)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 3, result.SessionCount)

	claims, err := security.ParseAccessToken(result.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, result.SessionID, claims.SessionID)
	sessions.AssertExpectations(t)
}

func TestLogin_SessionCountFailure(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	hasher := &mocks.PasswordHasher{}

	user := models.User{ID: 7, Email: "a@x.com", PasswordHash: []byte("h"), Status: true}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	hasher.On("Verify", "p4ssword", []byte("h")).Return(true)
	sessions.On("Create", mock.Anything, mock.AnythingOfType("models.Session")).Return(nil)
	sessions.On("CountByUser", mock.Anything, int64(7)).Return(0, assert.AnError)

	s := NewAuthService(users, sessions, hasher, authTestConfig(), testutil.Logger())

	result, err := s.Login(ctx, LoginInput{Email: "a@x.com", Password: "p4ssword"})
	require.NoError(t, err)
	assert.Zero(t, result.SessionCount)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}

	users.On("FindByEmail", mock.Anything, "nobody@x.com").Return(models.User{}, repository.ErrUserNotFound)

	s := NewAuthService(users, sessions, &mocks.PasswordHasher{}, authTestConfig(), testutil.Logger())

	_, err := s.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "p"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	hasher := &mocks.PasswordHasher{}

	user := models.User{ID: 7, Email: "a@x.com", PasswordHash: []byte("h"), Status: true}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	hasher.On("Verify", "wrong", []byte("h")).Return(false)

	s := NewAuthService(users, sessions, hasher, authTestConfig(), testutil.Logger())

	_, err := s.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_SoftDeletedUser(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	hasher := &mocks.PasswordHasher{}

	user := models.User{ID: 7, Email: "a@x.com", PasswordHash: []byte("h"), Status: false}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)

	s := NewAuthService(users, sessions, hasher, authTestConfig(), testutil.Logger())

	_, err := s.Login(ctx, LoginInput{Email: "a@x.com", Password: "p4ssword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}
