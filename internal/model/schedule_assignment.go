package model

import (
	"time"

	"github.com/golang-sql/civil"
	"gorm.io/datatypes"
)

// ScheduleAssignment 员工排班分配，对应 schedule_assignments
// 只增不改：更正通过新增分配完成。同一员工的分配区间允许重叠，由解析策略决定生效者。
type ScheduleAssignment struct {
	AssignmentID  int64           `gorm:"primaryKey;autoIncrement"           json:"assignment_id"`
	EmployeeID    int64           `gorm:"not null;index"                     json:"employee_id"`
	TemplateID    int64           `gorm:"not null;index"                     json:"template_id"`
	EffectiveFrom datatypes.Date  `gorm:"type:date;not null"                 json:"effective_from"`
	EffectiveTo   *datatypes.Date `gorm:"type:date"                          json:"effective_to,omitempty"` // NULL 表示长期有效
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy     *int64          `json:"created_by,omitempty"`

	// 关联
	Template *ScheduleTemplate `gorm:"foreignKey:TemplateID;references:TemplateID" json:"template,omitempty"`
}

// TableName 指定表名
func (ScheduleAssignment) TableName() string { return "schedule_assignments" }

// From 生效起始日（含）
func (a *ScheduleAssignment) From() civil.Date {
	return civil.DateOf(time.Time(a.EffectiveFrom))
}

// To 生效截止日（含）；长期有效时返回 false
func (a *ScheduleAssignment) To() (civil.Date, bool) {
	if a.EffectiveTo == nil {
		return civil.Date{}, false
	}
	return civil.DateOf(time.Time(*a.EffectiveTo)), true
}

// Covers 区间是否包含日期 d：From <= d 且 (To 为空 或 To >= d)
func (a *ScheduleAssignment) Covers(d civil.Date) bool {
	if a.From().After(d) {
		return false
	}
	to, ok := a.To()
	return !ok || !to.Before(d)
}

// DateValue 将日历日期转换为列值（UTC 零点）
func DateValue(d civil.Date) datatypes.Date {
	return datatypes.Date(d.In(time.UTC))
}
