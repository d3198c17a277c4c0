package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmalov/auth_service/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByResetUUID(ctx context.Context, token uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("reset_uuid = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetResetUUID stores a reset identifier on the user, replacing any
// identifier issued earlier. Only the most recent one stays usable.
func (r *GormRepo) SetResetUUID(ctx context.Context, userID uuid.UUID, token uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("reset_uuid", token).Error
}

// CompletePasswordReset swaps in the new password hash and burns the
// reset identifier in a single transaction, so a crash in between cannot
// leave the identifier reusable against the new credential.
func (r *GormRepo) CompletePasswordReset(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"password_hash": passwordHash,
				"reset_uuid":    nil,
			}).Error
	})
}
