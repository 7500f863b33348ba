package ratelimit

import (
	"context"
	"time"

	"github.com/noname01054/LaCoupole-back/entities"

	"gorm.io/gorm"
)

type (
	LimitRepository interface {
		PurgeExpired(ctx context.Context, before time.Time) error
		CountSince(ctx context.Context, fingerprints []string, since time.Time) (int64, error)
	}

	limitRepository struct {
		db *gorm.DB
	}
)

func NewLimitRepository(db *gorm.DB) LimitRepository {
	return &limitRepository{db: db}
}

func (r *limitRepository) PurgeExpired(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("order_timestamp < ?", before).
		Delete(&entities.DeviceOrderLimit{}).Error
}

func (r *limitRepository) CountSince(ctx context.Context, fingerprints []string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.DeviceOrderLimit{}).
		Where("device_fingerprint IN ? AND order_timestamp >= ?", fingerprints, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
