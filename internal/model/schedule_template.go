package model

import "gorm.io/datatypes"

// 星期取值（ISO：周一=1 … 周日=7）
const (
	WeekdayMonday = 1
	WeekdaySunday = 7
)

// ScheduleTemplate 排班模板，对应 schedule_templates
// 注意：布尔字段不加 gorm default 标签，否则 false 会被 GORM 当作零值跳过而落成默认值
type ScheduleTemplate struct {
	TemplateID int64  `gorm:"primaryKey;autoIncrement"   json:"template_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	IsActive   bool   `gorm:"not null"                   json:"is_active"`
	SiteID     *int64 `json:"site_id,omitempty"` // NULL 表示全局模板
	BaseModel

	// 关联
	Site     *Site             `gorm:"foreignKey:SiteID;references:SiteID"         json:"site,omitempty"`
	DayRules []ScheduleDayRule `gorm:"foreignKey:TemplateID;references:TemplateID" json:"day_rules,omitempty"`
}

// TableName 指定表名
func (ScheduleTemplate) TableName() string { return "schedule_templates" }

// Scope 模板当前范围
func (t *ScheduleTemplate) Scope() Scope { return ScopeFromColumn(t.SiteID) }

// SetScope 写回范围；会清空已加载的 Site 关联，避免与新 site_id 不一致
func (t *ScheduleTemplate) SetScope(s Scope) {
	t.SiteID = s.Column()
	t.Site = nil
}

// SiteName 站点名称；全局模板或未预加载站点时为 nil
func (t *ScheduleTemplate) SiteName() *string {
	if t.Site == nil {
		return nil
	}
	name := t.Site.Name
	return &name
}

// ScheduleDayRule 模板的星期规则，对应 schedule_day_rules
// (template_id, weekday) 唯一
type ScheduleDayRule struct {
	DayRuleID        int64           `gorm:"primaryKey;autoIncrement" json:"day_rule_id"`
	TemplateID       int64           `gorm:"not null;index"           json:"template_id"`
	Weekday          int             `gorm:"type:smallint;not null"   json:"weekday"`
	IsWorking        bool            `gorm:"not null"                 json:"is_working"`
	EntryTime        *datatypes.Time `json:"entry_time,omitempty"`
	ExitTime         *datatypes.Time `json:"exit_time,omitempty"`
	ToleranceMinutes int             `gorm:"not null"                 json:"tolerance_minutes"`
	RoundingMinutes  int             `gorm:"not null"                 json:"rounding_minutes"`
	BreakMinutes     int             `gorm:"not null"                 json:"break_minutes"`
}

// TableName 指定表名
func (ScheduleDayRule) TableName() string { return "schedule_day_rules" }

// HasWindow 是否为工作日且上下班时间齐全
func (r *ScheduleDayRule) HasWindow() bool {
	return r.IsWorking && r.EntryTime != nil && r.ExitTime != nil
}
