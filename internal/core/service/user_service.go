package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/munitrack/casos-api/internal/core/domain"
	"github.com/munitrack/casos-api/internal/core/ports"
	"github.com/munitrack/casos-api/internal/pkg/password"
)

// LoginThrottle abstracts the brute-force guard on login attempts (Redis).
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// UserService implements registration, login, and account lookups.
type UserService struct {
	repo     ports.UserRepository
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewUserService(repo ports.UserRepository, throttle LoginThrottle, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, throttle: throttle, log: log}
}

// Register creates an account with the password replaced by its hash.
// The duplicate pre-check is a fast path only; the unique index on username
// is the authoritative guard, surfaced by the repository as ErrUserExists.
func (s *UserService) Register(ctx context.Context, nombre, username, pass, rol string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if nombre == "" || username == "" || pass == "" || rol == "" {
		return nil, domain.ErrValidation
	}
	if !domain.RolValido(rol) {
		return nil, domain.ErrValidation
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Nombre:       nombre,
		Username:     username,
		PasswordHash: hash,
		Rol:          rol,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("rol", created.Rol).Msg("user registered")
	return stripHash(created), nil
}

// Login verifies credentials. Unknown username and wrong password both fail
// with ErrInvalidCredentials so the response does not reveal which half was
// wrong. Repeated failures for a username are throttled.
func (s *UserService) Login(ctx context.Context, username, pass string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || pass == "" {
		return nil, domain.ErrInvalidCredentials
	}

	locked, err := s.throttle.TooManyFailures(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, allowing attempt")
	} else if locked {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(pass, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle reset failed")
	}

	return stripHash(user), nil
}

// FindByUsername returns the profile, or (nil, nil) when no such user exists.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return stripHash(user), nil
}

func (s *UserService) ListAll(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, len(users))
	for i, u := range users {
		out[i] = stripHash(u)
	}
	return out, nil
}

func (s *UserService) recordFailure(ctx context.Context, username string) {
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

// stripHash returns a copy of u with the password hash blanked. Records
// handed back to callers never carry the hash, even internally.
func stripHash(u *domain.User) *domain.User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
