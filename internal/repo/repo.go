package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Ping(ctx context.Context) error {
	var n int
	if err := r.DB.WithContext(ctx).Raw("SELECT 42").Scan(&n).Error; err != nil {
		return err
	}
	if n != 42 {
		return fmt.Errorf("unexpected ping result: %d", n)
	}
	return nil
}
