package repository

import (
	"context"

	"github.com/golang-sql/civil"
	"gorm.io/gorm"

	"marcacion/backend/internal/model"
)

// ScheduleAssignmentRepository 排班分配数据访问接口
type ScheduleAssignmentRepository interface {
	Create(ctx context.Context, a *model.ScheduleAssignment) error
	// ListEffective 返回与闭区间 [start, end] 相交的分配，按 effective_from、assignment_id 升序
	ListEffective(ctx context.Context, employeeID int64, start, end civil.Date) ([]model.ScheduleAssignment, error)
	// ListByEmployee 员工全部分配历史，最新在前
	ListByEmployee(ctx context.Context, employeeID int64) ([]model.ScheduleAssignment, error)
	ExistsByTemplate(ctx context.Context, templateID int64) (bool, error)
}

type scheduleAssignmentRepo struct {
	db *gorm.DB
}

// NewScheduleAssignmentRepo 创建 ScheduleAssignmentRepository 实例
func NewScheduleAssignmentRepo(db *gorm.DB) ScheduleAssignmentRepository {
	return &scheduleAssignmentRepo{db: db}
}

func (r *scheduleAssignmentRepo) Create(ctx context.Context, a *model.ScheduleAssignment) error {
	return r.db.WithContext(ctx).Omit("Template").Create(a).Error
}

func (r *scheduleAssignmentRepo) ListEffective(ctx context.Context, employeeID int64, start, end civil.Date) ([]model.ScheduleAssignment, error) {
	var list []model.ScheduleAssignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			employeeID, model.DateValue(end), model.DateValue(start)).
		Order("effective_from ASC, assignment_id ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduleAssignmentRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]model.ScheduleAssignment, error) {
	var list []model.ScheduleAssignment
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("employee_id = ?", employeeID).
		Order("effective_from DESC, assignment_id DESC").
		Find(&list).Error
	return list, err
}

func (r *scheduleAssignmentRepo) ExistsByTemplate(ctx context.Context, templateID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleAssignment{}).
		Where("template_id = ?", templateID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}
