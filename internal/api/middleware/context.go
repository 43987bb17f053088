package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// Keys under which the middleware chain stores request state.
const (
	ContextKeyIdentity  = "identity"
	ContextKeyAdmission = "admission"
	ContextKeyOperation = "operation"
)

// IdentityFrom returns the identity set by Auth or Guard.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(ContextKeyIdentity).(domain.Identity)
	return id, ok
}

// AdmissionFrom returns the admission set by Guard.
func AdmissionFrom(c echo.Context) (*domain.Admission, bool) {
	adm, ok := c.Get(ContextKeyAdmission).(*domain.Admission)
	return adm, ok && adm != nil
}

// RequestID returns the id assigned by echo's RequestID middleware.
func RequestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
