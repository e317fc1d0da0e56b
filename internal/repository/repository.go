package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Transactor

	Site       SiteRepository
	Employee   EmployeeRepository
	Template   ScheduleTemplateRepository
	DayRule    ScheduleDayRuleRepository
	Assignment ScheduleAssignmentRepository
	AuditLog   AuditLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Transactor: gormTransactor{db: db},
		Site:       NewSiteRepo(db),
		Employee:   NewEmployeeRepo(db),
		Template:   NewScheduleTemplateRepo(db),
		DayRule:    NewScheduleDayRuleRepo(db),
		Assignment: NewScheduleAssignmentRepo(db),
		AuditLog:   NewAuditLogRepo(db),
	}
}

// Transactor 在单个事务中执行 fn，fn 返回错误或 panic 时整体回滚。
// 规则集整体替换、删除模板等"先删后插"操作必须经由此入口，读者不会看到中间状态。
type Transactor interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func (t gormTransactor) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
