package service

import (
	"fmt"
	"strings"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>".
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrMissingCredential
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrMissingCredential
	}
	return token, nil
}

// Gate authenticates bearer credentials. It has no side effects, so
// authenticating the same header twice yields the same Identity until the
// token expires.
type Gate struct {
	verifier ports.TokenVerifier
}

func NewGate(verifier ports.TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authenticate returns domain.ErrMissingCredential when no usable bearer
// header is present, and an error matching domain.ErrInvalidCredential plus
// the precise token failure otherwise.
func (g *Gate) Authenticate(header string) (domain.Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return domain.Identity{}, err
	}

	id, err := g.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}
	return id, nil
}
