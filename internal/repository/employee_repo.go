package repository

import (
	"context"

	"gorm.io/gorm"

	"marcacion/backend/internal/model"
)

// EmployeeRepository 员工数据访问接口（只读）
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}
