package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

const (
	defaultTokenTTL   = 24 * time.Hour
	defaultBcryptCost = 12
)

// accessClaims is the JWT payload of an access token.
type accessClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// CredentialService hashes passwords and mints/verifies HS256 access tokens
// against a single shared secret.
type CredentialService struct {
	secret   []byte
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
}

// CredentialOption customises a CredentialService.
type CredentialOption func(*CredentialService)

// WithClock replaces the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) CredentialOption {
	return func(s *CredentialService) { s.now = now }
}

// WithBcryptCost sets the bcrypt work factor.
func WithBcryptCost(cost int) CredentialOption {
	return func(s *CredentialService) { s.cost = cost }
}

func NewCredentialService(secret string, tokenTTL time.Duration, opts ...CredentialOption) *CredentialService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	s := &CredentialService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		cost:     defaultBcryptCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cost < bcrypt.MinCost || s.cost > bcrypt.MaxCost {
		s.cost = defaultBcryptCost
	}
	return s
}

// Hash returns a salted bcrypt hash of password.
func (s *CredentialService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash.
func (s *CredentialService) Compare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Mint issues a token with the configured lifetime.
func (s *CredentialService) Mint(userID int64, email string, role domain.Role) (string, error) {
	return s.MintWithTTL(userID, email, role, s.tokenTTL)
}

// MintWithTTL issues a token that expires ttl from now.
func (s *CredentialService) MintWithTTL(userID int64, email string, role domain.Role, ttl time.Duration) (string, error) {
	now := s.now()
	claims := accessClaims{
		UserID: userID,
		Email:  email,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates token and returns the identity it carries.
func (s *CredentialService) Verify(token string) (domain.Identity, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Identity{}, classifyTokenError(err)
	}

	role := domain.Role(claims.Role)
	if claims.UserID <= 0 || !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: missing or unknown identity claims", domain.ErrTokenInvalid)
	}

	return domain.Identity{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}

// classifyTokenError keeps expiry distinct from corruption.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
}
