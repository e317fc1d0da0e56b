package dto

// ── 排班模板模块 DTO ──

// CreateTemplateRequest 创建排班模板请求
// SiteID 为空或 0 表示全局模板（仅超级管理员）；站点管理员留空时自动归属本站点
type CreateTemplateRequest struct {
	Name     string `json:"name"      binding:"required,notblank"`
	IsActive *bool  `json:"is_active"` // 缺省为 true
	SiteID   *int64 `json:"site_id"   binding:"omitempty,min=0"`
}

// UpdateTemplateRequest 更新排班模板请求
type UpdateTemplateRequest struct {
	Name     string `json:"name"      binding:"required,notblank"`
	IsActive *bool  `json:"is_active"` // 缺省保持不变
	SiteID   *int64 `json:"site_id"   binding:"omitempty,min=0"`
}

// DayRuleInput 单条星期规则输入
// 时间接受 HH:MM 或 HH:MM:SS；分钟字段为负时按 0 处理。
// 字段内容统一由 service.ValidateDayRules 校验
type DayRuleInput struct {
	Weekday          int     `json:"weekday"`
	IsWorking        *bool   `json:"is_working"` // 缺省为 true
	EntryTime        *string `json:"entry_time"`
	ExitTime         *string `json:"exit_time"`
	ToleranceMinutes int     `json:"tolerance_minutes"`
	RoundingMinutes  int     `json:"rounding_minutes"`
	BreakMinutes     int     `json:"break_minutes"`
}

// ReplaceDayRulesRequest 整体替换星期规则请求（空列表表示清空）
type ReplaceDayRulesRequest struct {
	Rules []DayRuleInput `json:"rules" binding:"omitempty,dive"`
}

// DayRuleResponse 星期规则响应
type DayRuleResponse struct {
	Weekday          int     `json:"weekday"`
	IsWorking        bool    `json:"is_working"`
	EntryTime        *string `json:"entry_time"` // HH:MM:SS
	ExitTime         *string `json:"exit_time"`
	ToleranceMinutes int     `json:"tolerance_minutes"`
	RoundingMinutes  int     `json:"rounding_minutes"`
	BreakMinutes     int     `json:"break_minutes"`
}

// TemplateResponse 排班模板响应
type TemplateResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	IsActive  bool              `json:"is_active"`
	IsGlobal  bool              `json:"is_global"`
	SiteID    *int64            `json:"site_id"`
	SiteName  *string           `json:"site_name"`
	DayRules  []DayRuleResponse `json:"day_rules,omitempty"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}
