package dto

// ── 排班解析模块 DTO ──

// ScheduleWeekQuery 排班解析查询参数
// from/to 接受 YYYY-MM-DD 或 RFC 3339，闭区间
type ScheduleWeekQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

// ScheduleDayEntry 某一天的应出勤时间窗
// 字段名沿用移动端既有契约（camelCase）
type ScheduleDayEntry struct {
	Date             string  `json:"date"`      // YYYY-MM-DD
	EntryTime        string  `json:"entryTime"` // HH:MM:SS
	ExitTime         string  `json:"exitTime"`  // HH:MM:SS
	SiteName         *string `json:"siteName,omitempty"`
	TemplateName     string  `json:"templateName"`
	TemplateID       int64   `json:"templateId"`
	ToleranceMinutes int     `json:"toleranceMinutes"`
	BreakMinutes     int     `json:"breakMinutes"`
	RoundingMinutes  int     `json:"roundingMinutes"`
}
