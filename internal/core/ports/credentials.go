package ports

import (
	"time"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// TokenVerifier turns a raw access token into an Identity. Failures are
// domain.ErrTokenExpired, domain.ErrTokenMalformed or domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	Mint(userID int64, email string, role domain.Role) (string, error)
	MintWithTTL(userID int64, email string, role domain.Role, ttl time.Duration) (string, error)
}

// PasswordHasher hashes and compares passwords. Compare never errors; a
// malformed hash simply does not match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// Credentials is the full credential capability used by AuthService.
type Credentials interface {
	TokenVerifier
	TokenIssuer
	PasswordHasher
}
