package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// RBAC enforces role-based access control on the authenticated identity.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	req := domain.Requirement{Roles: allowedRoles}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingCredential
			}
			if !domain.Authorize(id, req, nil) {
				return &domain.ForbiddenError{CurrentRole: id.Role, RequiredRoles: allowedRoles}
			}
			return next(c)
		}
	}
}
