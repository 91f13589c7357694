package ports

import (
	"context"

	"github.com/munitrack/casos-api/internal/core/domain"
)

// UserService defines use-case operations on accounts. Every returned User
// has its password hash stripped.
type UserService interface {
	Register(ctx context.Context, nombre, username, pass, rol string) (*domain.User, error)
	// Login performs a stateless credential check. Failures are
	// undifferentiated (domain.ErrInvalidCredentials) whether the username
	// is unknown or the password wrong, to avoid username enumeration.
	Login(ctx context.Context, username, pass string) (*domain.User, error)
	// FindByUsername returns (nil, nil) when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
