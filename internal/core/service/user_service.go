package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile changes the self-service fields of targetID. Only the account
// owner or an admin may do so.
func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Identity, targetID int64, profile domain.Profile) error {
	if !domain.Authorize(caller, domain.RequireOwnerOrAdmin, &targetID) {
		return &domain.ForbiddenError{
			CurrentRole:   caller.Role,
			RequiredRoles: domain.RequireOwnerOrAdmin.Roles,
		}
	}

	profile = domain.Profile{
		Phone:     strings.TrimSpace(profile.Phone),
		StudyYear: strings.TrimSpace(profile.StudyYear),
		Branch:    strings.TrimSpace(profile.Branch),
		Section:   strings.TrimSpace(profile.Section),
		Residency: strings.TrimSpace(profile.Residency),
	}
	if err := s.repo.UpdateProfile(ctx, targetID, profile); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", targetID).Int64("by", caller.UserID).Msg("profile updated")
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
