package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

const defaultLookupTimeout = 3 * time.Second

// Stage is a step of the transaction guard. A failure is reported with the
// stage it happened in; every failure is terminal.
type Stage string

const (
	StageAuthenticatingCredential Stage = "authenticating_credential"
	StageAuthenticatingAccount    Stage = "authenticating_account"
	StageCheckingAuthorization    Stage = "checking_authorization"
	StageAuthorized               Stage = "authorized"
)

// GuardError wraps a guard failure with the stage that produced it.
// Identity is zero when the credential itself was rejected.
type GuardError struct {
	Stage    Stage
	Identity domain.Identity
	Err      error
}

func (e *GuardError) Error() string { return e.Err.Error() }

func (e *GuardError) Unwrap() error { return e.Err }

// Guard is the precondition for buy and sell operations: a verified
// credential, an account that still exists, and a role the operation
// accepts. It never mutates anything.
type Guard struct {
	gate          *Gate
	directory     ports.UserDirectory
	lookupTimeout time.Duration
}

func NewGuard(gate *Gate, directory ports.UserDirectory, lookupTimeout time.Duration) *Guard {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &Guard{gate: gate, directory: directory, lookupTimeout: lookupTimeout}
}

// Admit runs the full chain for the raw Authorization header value.
func (g *Guard) Admit(ctx context.Context, header string, op domain.Operation) (*domain.Admission, error) {
	identity, err := g.gate.Authenticate(header)
	if err != nil {
		return nil, &GuardError{Stage: StageAuthenticatingCredential, Err: err}
	}
	return g.AdmitIdentity(ctx, identity, op)
}

// AdmitIdentity runs the directory and policy stages for an identity that
// already passed the gate. The policy is evaluated against the role stored
// on the account, not the one embedded in the token.
func (g *Guard) AdmitIdentity(ctx context.Context, identity domain.Identity, op domain.Operation) (*domain.Admission, error) {
	account, err := g.lookup(ctx, identity.UserID)
	if err != nil {
		return nil, &GuardError{Stage: StageAuthenticatingAccount, Identity: identity, Err: err}
	}

	current := account.Identity()
	req := domain.RequirementFor(op)
	if !domain.Authorize(current, req, nil) {
		return nil, &GuardError{
			Stage:    StageCheckingAuthorization,
			Identity: current,
			Err: &domain.ForbiddenError{
				Operation:     op,
				CurrentRole:   account.Role,
				RequiredRoles: req.Roles,
			},
		}
	}

	return &domain.Admission{Identity: current, Account: account, Operation: op}, nil
}

func (g *Guard) lookup(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, g.lookupTimeout)
	defer cancel()

	account, err := g.directory.FindByID(ctx, id)
	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.ErrAccountNotFound
	default:
		return nil, fmt.Errorf("%w: %w", domain.ErrDirectoryUnavailable, err)
	}
}

// StageOf reports the stage a guard error stopped at, or StageAuthorized
// for a nil error.
func StageOf(err error) Stage {
	if err == nil {
		return StageAuthorized
	}
	var ge *GuardError
	if errors.As(err, &ge) {
		return ge.Stage
	}
	return StageAuthenticatingCredential
}
