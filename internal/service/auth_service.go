package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"userhub/api/internal/config"
	applog "userhub/api/internal/log"
	"userhub/api/internal/models"
	"userhub/api/internal/repository"
	"userhub/api/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordHasher
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	hasher PasswordHasher,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		cfg:      cfg,
		log:      log,
	}
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	AccessToken  string
	SessionID    string
	SessionCount int
	User         models.User
}

// Login verifies credentials, records a session and issues an access token.
// The session row is what FindUsers login-date filters match against.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := normalizeEmail(input.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	// Soft-deleted accounts keep their row but cannot log in.
	if !user.Status {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	session := models.Session{
		ID:        ksuid.New().String(),
		UserID:    user.ID,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, err
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		session.ID,
		s.cfg.Security.JWTTTL,
	)
	if err != nil {
		return LoginResult{}, err
	}

	sessionCount, err := s.sessions.CountByUser(ctx, user.ID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("session count failed")
		sessionCount = 0
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Str("session_id", session.ID).
		Int("session_count", sessionCount).
		Str("request_id", applog.RequestIDFromContext(ctx)).
		Msg("user logged in")

	return LoginResult{
		AccessToken:  accessToken,
		SessionID:    session.ID,
		SessionCount: sessionCount,
		User:         user,
	}, nil
}
