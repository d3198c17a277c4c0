package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmalov/auth_service/internal/models"
)

// RevokeToken records a token id in the denylist. Revoking the same jti
// twice is a no-op, not an error.
func (r *GormRepo) RevokeToken(ctx context.Context, jti string, userID uuid.UUID, expiresAt int64) error {
	revoked := models.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).Where("jti = ?", jti).FirstOrCreate(&revoked).Error
}

func (r *GormRepo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpiredTokens drops denylist rows whose tokens have expired on
// their own. The validator rejects expired tokens before it ever reaches
// the denylist, so keeping the rows around only grows the table.
func (r *GormRepo) PurgeExpiredTokens(ctx context.Context, now int64) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
