package repository

import (
	"context"

	"gorm.io/gorm"

	"marcacion/backend/internal/model"
)

// ScheduleTemplateRepository 排班模板数据访问接口
type ScheduleTemplateRepository interface {
	Create(ctx context.Context, tpl *model.ScheduleTemplate) error
	// GetByID 预加载站点与星期规则（按 weekday 升序）
	GetByID(ctx context.Context, id int64) (*model.ScheduleTemplate, error)
	// List 列出模板；siteID 为 nil 时返回全部，否则返回全局模板与该站点模板
	List(ctx context.Context, siteID *int64) ([]model.ScheduleTemplate, error)
	Update(ctx context.Context, tpl *model.ScheduleTemplate) error
	// Delete 先删除星期规则再删除模板，调用方负责引用检查
	Delete(ctx context.Context, id int64) error
}

type scheduleTemplateRepo struct {
	db *gorm.DB
}

// NewScheduleTemplateRepo 创建 ScheduleTemplateRepository 实例
func NewScheduleTemplateRepo(db *gorm.DB) ScheduleTemplateRepository {
	return &scheduleTemplateRepo{db: db}
}

func (r *scheduleTemplateRepo) Create(ctx context.Context, tpl *model.ScheduleTemplate) error {
	return r.db.WithContext(ctx).Omit("Site", "DayRules").Create(tpl).Error
}

func (r *scheduleTemplateRepo) GetByID(ctx context.Context, id int64) (*model.ScheduleTemplate, error) {
	var tpl model.ScheduleTemplate
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("DayRules", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Where("template_id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *scheduleTemplateRepo) List(ctx context.Context, siteID *int64) ([]model.ScheduleTemplate, error) {
	var tpls []model.ScheduleTemplate
	query := r.db.WithContext(ctx).Preload("Site")
	if siteID != nil {
		query = query.Where("site_id IS NULL OR site_id = ?", *siteID)
	}
	err := query.Order("name ASC, template_id ASC").Find(&tpls).Error
	return tpls, err
}

func (r *scheduleTemplateRepo) Update(ctx context.Context, tpl *model.ScheduleTemplate) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleTemplate{}).
		Where("template_id = ?", tpl.TemplateID).
		Updates(map[string]interface{}{
			"name":       tpl.Name,
			"is_active":  tpl.IsActive,
			"site_id":    tpl.SiteID,
			"updated_by": tpl.UpdatedBy,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *scheduleTemplateRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&model.ScheduleDayRule{}).Error; err != nil {
			return err
		}
		res := tx.Where("template_id = ?", id).Delete(&model.ScheduleTemplate{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
