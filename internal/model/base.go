package model

import "time"

// BaseModel 通用审计字段（模板等可变实体嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *int64    `json:"updated_by,omitempty"`
}

// Stamp 记录创建人与修改人
func (b *BaseModel) Stamp(actorID int64, creating bool) {
	if creating {
		b.CreatedBy = &actorID
	}
	b.UpdatedBy = &actorID
}
