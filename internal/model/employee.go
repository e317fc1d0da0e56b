package model

import "time"

// Employee 员工表，对应 employees
// 由认证服务维护，本服务只读，用于校验分配对象与所属站点
type Employee struct {
	EmployeeID int64     `gorm:"primaryKey;autoIncrement"                  json:"employee_id"`
	Name       string    `gorm:"type:varchar(150);not null"                json:"name"`
	Email      string    `gorm:"type:varchar(255);not null"                json:"email"`
	Role       string    `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	SiteID     *int64    `json:"site_id,omitempty"`
	IsActive   bool      `gorm:"not null;default:true"                     json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"updated_at"`

	// 关联
	Site *Site `gorm:"foreignKey:SiteID;references:SiteID" json:"site,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
