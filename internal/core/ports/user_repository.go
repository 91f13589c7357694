package ports

import (
	"context"

	"github.com/munitrack/casos-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Username uniqueness is enforced here (unique index at the storage layer);
// Create returns domain.ErrUserExists on a duplicate regardless of any
// application-level pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
