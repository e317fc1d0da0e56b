package repository

import (
	"context"

	"gorm.io/gorm"

	"marcacion/backend/internal/model"
)

// ResolvableDayRule 解析用的星期规则投影：规则本身 + 所属模板名称 + 模板站点名称
type ResolvableDayRule struct {
	model.ScheduleDayRule
	TemplateName string  `gorm:"column:template_name"`
	SiteName     *string `gorm:"column:site_name"`
}

// ScheduleDayRuleRepository 星期规则数据访问接口
type ScheduleDayRuleRepository interface {
	ListByTemplate(ctx context.Context, templateID int64) ([]model.ScheduleDayRule, error)
	// ReplaceForTemplate 整体替换：删除模板全部规则后插入新规则，二者在同一事务内
	ReplaceForTemplate(ctx context.Context, templateID int64, rules []model.ScheduleDayRule) error
	// ListForResolution 按 (模板集合, 星期集合) 批量读取规则并连接模板名与站点名
	ListForResolution(ctx context.Context, templateIDs []int64, weekdays []int) ([]ResolvableDayRule, error)
}

type scheduleDayRuleRepo struct {
	db *gorm.DB
}

// NewScheduleDayRuleRepo 创建 ScheduleDayRuleRepository 实例
func NewScheduleDayRuleRepo(db *gorm.DB) ScheduleDayRuleRepository {
	return &scheduleDayRuleRepo{db: db}
}

func (r *scheduleDayRuleRepo) ListByTemplate(ctx context.Context, templateID int64) ([]model.ScheduleDayRule, error) {
	var rules []model.ScheduleDayRule
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("weekday ASC").
		Find(&rules).Error
	return rules, err
}

func (r *scheduleDayRuleRepo) ReplaceForTemplate(ctx context.Context, templateID int64, rules []model.ScheduleDayRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).Delete(&model.ScheduleDayRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		for i := range rules {
			rules[i].DayRuleID = 0
			rules[i].TemplateID = templateID
		}
		return tx.Create(&rules).Error
	})
}

func (r *scheduleDayRuleRepo) ListForResolution(ctx context.Context, templateIDs []int64, weekdays []int) ([]ResolvableDayRule, error) {
	var rows []ResolvableDayRule
	if len(templateIDs) == 0 || len(weekdays) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("schedule_day_rules AS d").
		Select("d.*, t.name AS template_name, s.name AS site_name").
		Joins("JOIN schedule_templates t ON t.template_id = d.template_id").
		Joins("LEFT JOIN sites s ON s.site_id = t.site_id").
		Where("d.template_id IN ? AND d.weekday IN ?", templateIDs, weekdays).
		Scan(&rows).Error
	return rows, err
}
