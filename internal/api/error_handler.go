package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/api/middleware"
	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// directoryRetryAfter is sent with 503 responses caused by the user directory.
const directoryRetryAfter = 5

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success       bool     `json:"success"`
	Code          string   `json:"code"`
	Error         string   `json:"error"`
	Operation     string   `json:"operation,omitempty"`
	Action        string   `json:"action,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
	CurrentRole   string   `json:"current_role,omitempty"`
	RequiredRoles []string `json:"required_roles,omitempty"`
	Field         string   `json:"field,omitempty"`
	Options       []string `json:"options,omitempty"`
	RetryAfter    int      `json:"retry_after,omitempty"`
	Detail        string   `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable reason code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Adds the internal error text as "detail" only in development.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		if op, ok := c.Get(middleware.ContextKeyOperation).(domain.Operation); ok && resp.Operation == "" {
			resp.Operation = string(op)
		}
		if development && status >= http.StatusInternalServerError {
			resp.Detail = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	resp := errorResponse{Success: false}

	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp.Code = statusCode(he.Code)
		resp.Error = fmt.Sprintf("%v", he.Message)
		return he.Code, resp
	}

	var (
		forbidden  *domain.ForbiddenError
		validation *domain.ValidationError
		tooMany    *domain.TooManyAttemptsError
	)

	switch {
	// Credential layer.
	case errors.Is(err, domain.ErrMissingCredential):
		resp.Code, resp.Error = "TOKEN_MISSING", domain.ErrMissingCredential.Error()
		resp.Action = "login_required"
		resp.Suggestion = "Please login first to access buy/sell features"
		return http.StatusUnauthorized, resp
	case errors.Is(err, domain.ErrTokenExpired):
		resp.Code, resp.Error = "TOKEN_EXPIRED", domain.ErrInvalidCredential.Error()
		resp.Action = "login_required"
		resp.Suggestion = "Your session has expired, please login again"
		return http.StatusForbidden, resp
	case errors.Is(err, domain.ErrTokenMalformed):
		resp.Code, resp.Error = "TOKEN_MALFORMED", domain.ErrInvalidCredential.Error()
		resp.Action = "login_required"
		return http.StatusForbidden, resp
	case errors.Is(err, domain.ErrInvalidCredential):
		resp.Code, resp.Error = "TOKEN_INVALID", domain.ErrInvalidCredential.Error()
		resp.Action = "login_required"
		return http.StatusForbidden, resp

	// Directory and policy layer.
	case errors.Is(err, domain.ErrAccountNotFound):
		resp.Code, resp.Error = "ACCOUNT_NOT_FOUND", domain.ErrAccountNotFound.Error()
		resp.Action = "signup_required"
		resp.Suggestion = "Please signup or contact support"
		return http.StatusNotFound, resp
	case errors.As(err, &forbidden):
		resp.Code, resp.Error = "FORBIDDEN", forbidden.Error()
		resp.Operation = string(forbidden.Operation)
		resp.CurrentRole = string(forbidden.CurrentRole)
		resp.RequiredRoles = roleStrings(forbidden.RequiredRoles)
		if forbidden.Operation == domain.OperationSell {
			resp.Suggestion = "Only sellers and admins can sell products"
		}
		return http.StatusForbidden, resp
	case errors.Is(err, domain.ErrForbidden):
		resp.Code, resp.Error = "FORBIDDEN", domain.ErrForbidden.Error()
		return http.StatusForbidden, resp
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("user directory unavailable")
		c.Response().Header().Set("Retry-After", strconv.Itoa(directoryRetryAfter))
		resp.Code, resp.Error = "DIRECTORY_UNAVAILABLE", domain.ErrDirectoryUnavailable.Error()
		resp.Suggestion = "Please try again later"
		resp.RetryAfter = directoryRetryAfter
		return http.StatusServiceUnavailable, resp

	// Login.
	case errors.As(err, &tooMany):
		secs := int(tooMany.RetryAfter.Seconds() + 0.5)
		if secs < 1 {
			secs = 1
		}
		c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
		resp.Code, resp.Error = "TOO_MANY_ATTEMPTS", domain.ErrTooManyAttempts.Error()
		resp.RetryAfter = secs
		return http.StatusTooManyRequests, resp
	case errors.Is(err, domain.ErrInvalidCredentials):
		resp.Code, resp.Error = "INVALID_CREDENTIALS", domain.ErrInvalidCredentials.Error()
		return http.StatusUnauthorized, resp

	// Request validation.
	case errors.As(err, &validation):
		resp.Code, resp.Error = "VALIDATION_FAILED", validation.Message
		resp.Field = validation.Field
		resp.Options = validation.Options
		return http.StatusBadRequest, resp

	// Resources.
	case errors.Is(err, domain.ErrUserExists):
		resp.Code, resp.Error = "USER_EXISTS", domain.ErrUserExists.Error()
		resp.Suggestion = "Please login instead"
		return http.StatusConflict, resp
	case errors.Is(err, domain.ErrUserNotFound):
		resp.Code, resp.Error = "USER_NOT_FOUND", domain.ErrUserNotFound.Error()
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrProductNotFound):
		resp.Code, resp.Error = "PRODUCT_NOT_FOUND", domain.ErrProductNotFound.Error()
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrProductCodeTaken):
		resp.Code, resp.Error = "PRODUCT_CODE_TAKEN", domain.ErrProductCodeTaken.Error()
		resp.Suggestion = "Use a different product code"
		return http.StatusConflict, resp
	case errors.Is(err, domain.ErrProductInUse):
		resp.Code, resp.Error = "PRODUCT_IN_USE", domain.ErrProductInUse.Error()
		resp.Suggestion = "Set quantity to 0 to disable the product instead"
		return http.StatusConflict, resp
	case errors.Is(err, domain.ErrCartItemNotFound):
		resp.Code, resp.Error = "CART_ITEM_NOT_FOUND", domain.ErrCartItemNotFound.Error()
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrOrderNotFound):
		resp.Code, resp.Error = "ORDER_NOT_FOUND", domain.ErrOrderNotFound.Error()
		return http.StatusNotFound, resp
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	resp.Code, resp.Error = "INTERNAL_ERROR", "internal server error"
	return http.StatusInternalServerError, resp
}

// statusCode turns an HTTP status into an upper-snake reason code,
// e.g. 404 → "NOT_FOUND".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
