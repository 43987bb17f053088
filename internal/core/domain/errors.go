package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Credential layer.
var (
	ErrMissingCredential = errors.New("access token required")
	ErrInvalidCredential = errors.New("invalid or expired token")
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("token is invalid")
)

// Directory and policy layer.
var (
	ErrAccountNotFound      = errors.New("user account not found")
	ErrForbidden            = errors.New("access forbidden")
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductCodeTaken   = errors.New("product code already exists")
	ErrProductInUse       = errors.New("product has existing orders or cart items")
	ErrCartItemNotFound   = errors.New("cart item not found or unauthorized")
	ErrOrderNotFound      = errors.New("order not found or unauthorized")
)

// ForbiddenError carries the data a client needs to explain a denied
// transaction. It matches ErrForbidden under errors.Is.
type ForbiddenError struct {
	Operation     Operation
	CurrentRole   Role
	RequiredRoles []Role
}

func (e *ForbiddenError) Error() string {
	roles := make([]string, len(e.RequiredRoles))
	for i, r := range e.RequiredRoles {
		roles[i] = string(r)
	}
	if e.Operation == "" {
		return fmt.Sprintf("access denied: role %q, required roles: %s", e.CurrentRole, strings.Join(roles, ", "))
	}
	return fmt.Sprintf("insufficient permissions for %s: role %q, required roles: %s",
		e.Operation, e.CurrentRole, strings.Join(roles, ", "))
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// ValidationError reports a rejected field. It matches ErrValidation under
// errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Options []string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid is shorthand for a field-level ValidationError.
func Invalid(field, message string, options ...string) error {
	return &ValidationError{Field: field, Message: message, Options: options}
}

// TooManyAttemptsError is returned while a login key is throttled. It
// matches ErrTooManyAttempts under errors.Is.
type TooManyAttemptsError struct {
	RetryAfter time.Duration
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrTooManyAttempts, e.RetryAfter.Round(time.Second))
}

func (e *TooManyAttemptsError) Is(target error) bool {
	return target == ErrTooManyAttempts
}
