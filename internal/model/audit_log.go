package model

import (
	"time"

	"gorm.io/datatypes"
)

// 审计实体类型
const (
	AuditEntityTemplate   = "ScheduleTemplate"
	AuditEntityAssignment = "ScheduleAssignment"
)

// AuditLog 审计日志，对应 audit_logs（只追加）
type AuditLog struct {
	AuditLogID int64          `gorm:"primaryKey;autoIncrement"           json:"audit_log_id"`
	ActorID    int64          `gorm:"not null"                           json:"actor_id"`
	Action     string         `gorm:"type:varchar(64);not null"          json:"action"`
	EntityType string         `gorm:"type:varchar(64);not null"          json:"entity_type"`
	EntityID   int64          `gorm:"not null"                           json:"entity_id"`
	Payload    datatypes.JSON `gorm:"type:jsonb"                         json:"payload,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
