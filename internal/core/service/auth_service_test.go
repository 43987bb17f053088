package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

func newTestCreds() *CredentialService {
	return NewCredentialService("secret", time.Hour, WithBcryptCost(bcrypt.MinCost))
}

func newAuthSvc(repo *stubUserRepo, limiter ports.LoginLimiter, sink *recordingSink) *AuthService {
	var audit ports.AuditSink
	if sink != nil {
		audit = sink
	}
	return NewAuthService(repo, newTestCreds(), limiter, audit, zerolog.Nop())
}

func register(t *testing.T, svc *AuthService, email, password string, role domain.Role) *ports.AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return res
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc := newAuthSvc(repo, nil, sink)

	res := register(t, svc, "  Alice@Example.com ", "pass123", domain.RoleSeller)
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", res.User.Email)
	}
	if res.User.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if res.User.Role != domain.RoleSeller {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}

	id, err := newTestCreds().Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.UserID != res.User.ID || id.Role != domain.RoleSeller {
		t.Fatalf("unexpected identity: %+v", id)
	}

	if got := sink.types(); len(got) != 1 || got[0] != domain.EventRegistered {
		t.Fatalf("expected one registered event, got %v", got)
	}
}

func TestAuthService_Register_DefaultsToBuyer(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), nil, nil)

	res := register(t, svc, "bob@example.com", "pass123", "")
	if res.User.Role != domain.RoleBuyer {
		t.Fatalf("expected buyer, got %s", res.User.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), nil, nil)

	cases := map[string]ports.RegisterInput{
		"missing fields": {Name: "", Email: "", Password: ""},
		"bad email":      {Name: "x", Email: "not-an-email", Password: "pass123"},
		"display name":   {Name: "x", Email: "Bob <bob@example.com>", Password: "pass123"},
		"short password": {Name: "x", Email: "x@example.com", Password: "a1"},
		"no digit":       {Name: "x", Email: "x@example.com", Password: "password"},
		"no letter":      {Name: "x", Email: "x@example.com", Password: "123456"},
		"unknown role":   {Name: "x", Email: "x@example.com", Password: "pass123", Role: "wrong"},
		"self admin":     {Name: "x", Email: "x@example.com", Password: "pass123", Role: domain.RoleAdmin},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), nil, nil)

	register(t, svc, "bob@example.com", "pass123", domain.RoleBuyer)
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "BOB@example.com", Password: "pass456",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	limiter := &stubLimiter{allowed: true}
	svc := newAuthSvc(repo, limiter, sink)

	register(t, svc, "carol@example.com", "s3cret", domain.RoleSeller)

	res, err := svc.Login(context.Background(), "carol@example.com", "s3cret", "req-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User == nil || res.User.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if len(limiter.resets) != 1 || limiter.resets[0] != "carol@example.com" {
		t.Fatalf("expected limiter reset, got %v", limiter.resets)
	}
	got := sink.types()
	if got[len(got)-1] != domain.EventLoginSucceeded {
		t.Fatalf("expected login_succeeded event, got %v", got)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	sink := &recordingSink{}
	svc := newAuthSvc(newStubUserRepo(), nil, sink)

	register(t, svc, "dave@example.com", "goodpass1", domain.RoleBuyer)
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass1", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	got := sink.types()
	if got[len(got)-1] != domain.EventLoginFailed {
		t.Fatalf("expected login_failed event, got %v", got)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), nil, nil)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass123", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: false, retryAfter: 90 * time.Second}
	svc := newAuthSvc(repo, limiter, nil)

	_, err := svc.Login(context.Background(), "eve@example.com", "pass123", "")
	var tooMany *domain.TooManyAttemptsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected TooManyAttemptsError, got %v", err)
	}
	if tooMany.RetryAfter != 90*time.Second {
		t.Fatalf("unexpected retry after: %s", tooMany.RetryAfter)
	}
}

func TestAuthService_Login_LimiterDownFailsOpen(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{err: errBoom}
	svc := newAuthSvc(repo, limiter, nil)

	register(t, svc, "frank@example.com", "pass123", domain.RoleBuyer)
	if _, err := svc.Login(context.Background(), "frank@example.com", "pass123", ""); err != nil {
		t.Fatalf("expected login to succeed with limiter down, got %v", err)
	}
}

func TestAuthService_Login_RequiresFields(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), nil, nil)

	if _, err := svc.Login(context.Background(), "", "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, nil, nil)

	res := register(t, svc, "gina@example.com", "pass123", domain.RoleBuyer)
	user, err := svc.Profile(context.Background(), res.User.Identity())
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if user.ID != res.User.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Profile(context.Background(), domain.Identity{UserID: 999}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_BootstrapAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, nil, nil)

	if err := svc.BootstrapAdmin(context.Background(), "root@example.com", "admin123"); err != nil {
		t.Fatalf("BootstrapAdmin returned error: %v", err)
	}
	u, err := repo.FindByEmail(context.Background(), "root@example.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", u.Role)
	}

	// Second run is a no-op.
	if err := svc.BootstrapAdmin(context.Background(), "root@example.com", "admin123"); err != nil {
		t.Fatalf("second BootstrapAdmin returned error: %v", err)
	}
	all, _ := repo.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected one account, got %d", len(all))
	}
}
