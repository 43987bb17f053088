package ports

import (
	"context"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// UserDirectory is the read side the guard depends on. FindByID is a point
// lookup with no side effects; it returns domain.ErrUserNotFound when the
// account does not exist.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserRepository defines persistence operations for account records.
type UserRepository interface {
	UserDirectory
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error
	Delete(ctx context.Context, id int64) error
}
