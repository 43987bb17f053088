package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCredentialService_MintVerifyRoundTrip(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	token, err := svc.Mint(42, "a@example.com", domain.RoleSeller)
	require.NoError(t, err)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: 42, Email: "a@example.com", Role: domain.RoleSeller}, id)
}

func TestCredentialService_TokensAreUnique(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	a, err := svc.Mint(1, "a@example.com", domain.RoleBuyer)
	require.NoError(t, err)
	b, err := svc.Mint(1, "a@example.com", domain.RoleBuyer)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCredentialService_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewCredentialService("secret", time.Hour, WithClock(clock.Now))

	token, err := svc.MintWithTTL(7, "b@example.com", domain.RoleBuyer, time.Second)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestCredentialService_Malformed(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)

	other := NewCredentialService("other-secret", time.Hour)
	token, err := other.Mint(1, "c@example.com", domain.RoleBuyer)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestCredentialService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	claims := jwt.MapClaims{"userId": 1, "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestCredentialService_InvalidClaims(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour)

	token, err := svc.Mint(1, "d@example.com", domain.Role("superuser"))
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	noExp := jwt.MapClaims{"userId": 1, "role": "buyer"}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestCredentialService_HashCompare(t *testing.T) {
	svc := NewCredentialService("secret", time.Hour, WithBcryptCost(bcrypt.MinCost))

	hash, err := svc.Hash("pass123")
	require.NoError(t, err)
	assert.NotEqual(t, "pass123", hash)
	assert.True(t, svc.Compare("pass123", hash))
	assert.False(t, svc.Compare("pass124", hash))
	assert.False(t, svc.Compare("pass123", "not-a-bcrypt-hash"))
}
