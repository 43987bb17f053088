package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/core/service"
)

// Auth verifies the bearer credential and stores the identity in the
// context. It does not consult the user directory.
func Auth(gate *service.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := gate.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			c.Set(ContextKeyIdentity, id)
			return next(c)
		}
	}
}
