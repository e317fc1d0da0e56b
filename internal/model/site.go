package model

import "time"

// Site 站点（sede），对应 sites
type Site struct {
	SiteID    int64     `gorm:"primaryKey;autoIncrement"           json:"site_id"`
	Name      string    `gorm:"type:varchar(100);not null"         json:"name"`
	IsActive  bool      `gorm:"not null;default:true"              json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Site) TableName() string { return "sites" }
