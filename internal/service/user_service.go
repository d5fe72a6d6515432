package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	applog "userhub/api/internal/log"
	"userhub/api/internal/models"
	"userhub/api/internal/repository"
)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

var (
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidInput      = errors.New("email and password required")
)

// UserStore is the persistence surface the service needs. FindByEmail must
// match soft-deleted rows too; every other read and mutation sees active rows
// only, with the precondition embedded in the statement itself.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetActiveByID(ctx context.Context, id int64) (models.User, error)
	ListActive(ctx context.Context) ([]models.User, error)
	Find(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) error
	Deactivate(ctx context.Context, id int64) error
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, hash []byte) bool
}

type UserService struct {
	users  UserStore
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewUserService(users UserStore, hasher PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		log:    log,
	}
}

type CreateUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Cellphone            string
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (models.User, error) {
	// Mismatched passwords win over any other validation problem.
	if input.Password != input.PasswordConfirmation {
		return models.User{}, ErrPasswordMismatch
	}

	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return models.User{}, ErrInvalidInput
	}

	// Unfiltered on purpose: a soft-deleted account keeps its email reserved.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Cellphone:    input.Cellphone,
		Status:       true,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// The unique index catches concurrent creates that slipped past
		// the existence check.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrUserAlreadyExists
		}
		return models.User{}, err
	}

	return created, nil
}

type BulkFailure struct {
	Index  int
	Reason string
}

type BulkCreateResult struct {
	Inserted int
	Failed   int
	Failures []BulkFailure
}

// BulkCreateUsers processes the payload strictly in order. Each item succeeds
// or fails on its own; a failure never aborts the batch and is reported back
// with its index and error kind.
func (s *UserService) BulkCreateUsers(ctx context.Context, inputs []CreateUserInput) BulkCreateResult {
	var result BulkCreateResult
	for i, input := range inputs {
		if _, err := s.CreateUser(ctx, input); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{Index: i, Reason: failureReason(err)})
			s.log.Warn().Err(err).Int("index", i).
				Str("request_id", applog.RequestIDFromContext(ctx)).
				Msg("bulk create item failed")
			continue
		}
		result.Inserted++
	}
	return result
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, ErrUserAlreadyExists):
		return "user_already_exists"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal_error"
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	user, err := s.users.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListActive(ctx)
}

// FindUsers applies exactly the filters it is given. Absent fields mean no
// constraint; defaults, if any, belong to the caller.
func (s *UserService) FindUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return s.users.Find(ctx, filter)
}

type UpdateUserInput struct {
	Name      *string
	Password  *string
	Cellphone *string
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) error {
	patch := models.UserPatch{
		Name:      input.Name,
		Cellphone: input.Cellphone,
	}

	if input.Password != nil {
		passwordHash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return err
		}
		patch.PasswordHash = passwordHash
	}

	if err := s.users.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
