package ports

import (
	"context"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.Role
	Phone     string
	StudyYear string
	Branch    string
	Section   string
	Residency string
	RequestID string
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password, requestID string) (*AuthResult, error)
	Profile(ctx context.Context, id domain.Identity) (*domain.User, error)
}
