package repository

import (
	"context"

	"gorm.io/gorm"

	"marcacion/backend/internal/model"
)

// SiteRepository 站点数据访问接口
type SiteRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type siteRepo struct {
	db *gorm.DB
}

// NewSiteRepo 创建 SiteRepository 实例
func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("site_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
