package dto

// ── 排班分配模块 DTO ──

// CreateAssignmentRequest 为员工分配排班模板
// 日期格式 YYYY-MM-DD；EffectiveTo 为空表示长期有效
type CreateAssignmentRequest struct {
	EmployeeID    int64   `json:"employee_id"    binding:"required,min=1"`
	TemplateID    int64   `json:"template_id"    binding:"required,min=1"`
	EffectiveFrom string  `json:"effective_from" binding:"required"`
	EffectiveTo   *string `json:"effective_to"`
}

// AssignmentResponse 排班分配响应
type AssignmentResponse struct {
	ID            int64   `json:"id"`
	EmployeeID    int64   `json:"employee_id"`
	TemplateID    int64   `json:"template_id"`
	TemplateName  string  `json:"template_name,omitempty"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	CreatedAt     string  `json:"created_at"`
}
