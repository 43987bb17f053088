package sql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed user directory.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("user_email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := newUserRow(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order("created_at DESC, user_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, len(rows))
	for i := range rows {
		users[i] = rows[i].toDomain()
	}
	return users, nil
}

// UpdateProfile sets the non-empty profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, p domain.Profile) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	for col, val := range map[string]string{
		"user_phone":     p.Phone,
		"user_studyyear": p.StudyYear,
		"user_branch":    p.Branch,
		"user_section":   p.Section,
		"user_residency": p.Residency,
	} {
		if val != "" {
			updates[col] = val
		}
	}

	res := r.db.WithContext(ctx).Model(&userRow{}).Where("user_id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the account together with its cart. Orders are kept.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&cartRow{}).Error; err != nil {
			return err
		}
		res := tx.Where("user_id = ?", id).Delete(&userRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
