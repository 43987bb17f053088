package handler

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/api/middleware"
	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth or Guard
// middleware. Its absence means the route was wired without one.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingCredential
	}
	return id, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(name, name+" must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the request into req and runs the struct tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return bindError(err)
	}
	return c.Validate(req)
}

// bindError reports a body that echo could not decode, naming the field
// when the JSON decoder knows it.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Invalid(typeErr.Field, "must be a "+typeErr.Type.String())
	}
	return domain.Invalid("", "request body must be valid JSON")
}
