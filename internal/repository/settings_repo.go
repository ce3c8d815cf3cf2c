package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"contest-arena/backend/internal/model"
	apperrors "contest-arena/backend/pkg/errors"
)

// PlatformSettingsRepository 平台设置数据访问接口
// Get 每次调用都回源数据库，不做进程内缓存
type PlatformSettingsRepository interface {
	Get(ctx context.Context) (*model.PlatformSettings, error)
	// UpdateVersioned 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
	UpdateVersioned(ctx context.Context, settings *model.PlatformSettings, updatedBy string) error
}

type platformSettingsRepo struct {
	db *gorm.DB
}

// NewPlatformSettingsRepo 创建 PlatformSettingsRepository 实例
func NewPlatformSettingsRepo(db *gorm.DB) PlatformSettingsRepository {
	return &platformSettingsRepo{db: db}
}

func (r *platformSettingsRepo) Get(ctx context.Context) (*model.PlatformSettings, error) {
	var settings model.PlatformSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *platformSettingsRepo) UpdateVersioned(ctx context.Context, settings *model.PlatformSettings, updatedBy string) error {
	res := r.db.WithContext(ctx).
		Model(&model.PlatformSettings{}).
		Where("singleton = true AND version = ?", settings.Version).
		Updates(map[string]interface{}{
			"current_interval":             settings.CurrentInterval,
			"is_submissions_open":          settings.IsSubmissionsOpen,
			"max_submissions_per_interval": settings.MaxSubmissionsPerInterval,
			"version":                      settings.Version + 1,
			"updated_at":                   time.Now(),
			"updated_by":                   updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	settings.Version++
	return nil
}
