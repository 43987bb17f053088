package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var emailRule = validator.New()

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	users   ports.UserRepository
	creds   ports.Credentials
	limiter ports.LoginLimiter
	audit   ports.AuditSink
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the service. limiter and audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	creds ports.Credentials,
	limiter ports.LoginLimiter,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &AuthService{
		users:   users,
		creds:   creds,
		limiter: limiter,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Invalid("", "name, email, and password are required")
	}
	if err := emailRule.Var(in.Email, "email"); err != nil {
		return nil, domain.Invalid("user_email", "must be a valid email")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = domain.RoleBuyer
	}
	if in.Role != domain.RoleBuyer && in.Role != domain.RoleSeller {
		return nil, domain.Invalid("role", "role must be one of", string(domain.RoleBuyer), string(domain.RoleSeller))
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
		StudyYear:    in.StudyYear,
		Branch:       in.Branch,
		Section:      in.Section,
		Residency:    in.Residency,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.creds.Mint(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuthEvent{
		Type:       domain.EventRegistered,
		UserID:     created.ID,
		Email:      created.Email,
		RequestID:  in.RequestID,
		OccurredAt: now,
	})
	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")

	return &ports.AuthResult{Token: token, User: created}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, requestID string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("", "email and password are required")
	}

	if s.limiter != nil {
		allowed, retryAfter, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			s.recordLoginFailure(0, email, "throttled", requestID)
			return nil, &domain.TooManyAttemptsError{RetryAfter: retryAfter}
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordLoginFailure(0, email, "unknown_email", requestID)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.creds.Compare(password, user.PasswordHash) {
		s.recordLoginFailure(user.ID, email, "bad_password", requestID)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}

	token, err := s.creds.Mint(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuthEvent{
		Type:       domain.EventLoginSucceeded,
		UserID:     user.ID,
		Email:      user.Email,
		RequestID:  requestID,
		OccurredAt: s.now().UTC(),
	})

	return &ports.AuthResult{Token: token, User: user}, nil
}

// Profile returns the stored account for an authenticated identity.
func (s *AuthService) Profile(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.users.FindByID(ctx, id.UserID)
}

// BootstrapAdmin makes sure an admin account exists for email. An existing
// account is left untouched.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Int64("user_id", existing.ID).Msg("bootstrap admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := s.creds.Hash(password)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}
	s.log.Info().Int64("user_id", created.ID).Msg("bootstrap admin created")
	return nil
}

func (s *AuthService) recordLoginFailure(userID int64, email, reason, requestID string) {
	s.audit.Record(domain.AuthEvent{
		Type:       domain.EventLoginFailed,
		UserID:     userID,
		Email:      email,
		Reason:     reason,
		RequestID:  requestID,
		OccurredAt: s.now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword requires at least six characters with one letter and one
// digit.
func validatePassword(password string) error {
	if len(password) < 6 {
		return domain.Invalid("user_password", "password must be at least 6 characters long")
	}
	if len(password) > maxPasswordBytes {
		return domain.Invalid("user_password", "password must be at most 72 bytes long")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.Invalid("user_password", "password must contain at least one letter and one number")
	}
	return nil
}
