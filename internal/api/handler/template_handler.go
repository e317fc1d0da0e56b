package handler

import (
	"github.com/gin-gonic/gin"

	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/service"
	"marcacion/backend/pkg/response"
)

// TemplateHandler 排班模板 HTTP 处理器
type TemplateHandler struct {
	templateSvc service.ScheduleTemplateService
}

// NewTemplateHandler 创建 TemplateHandler
func NewTemplateHandler(templateSvc service.ScheduleTemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// List 获取可见的排班模板
// GET /api/v1/schedule-templates
func (h *TemplateHandler) List(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.templateSvc.List(c.Request.Context(), p)
	if err != nil {
		handleServiceError(c, codeTemplateBase, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Get 获取模板详情（含星期规则）
// GET /api/v1/schedule-templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", codeTemplateBase+suffixValidation)
	if !ok {
		return
	}

	tpl, err := h.templateSvc.GetByID(c.Request.Context(), p, id)
	if err != nil {
		handleServiceError(c, codeTemplateBase, err)
		return
	}

	response.OK(c, tpl)
}

// Create 创建模板
// POST /api/v1/schedule-templates
func (h *TemplateHandler) Create(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tpl, err := h.templateSvc.Create(c.Request.Context(), p, &req)
	if err != nil {
		handleServiceError(c, codeTemplateBase, err)
		return
	}

	response.Created(c, tpl)
}

// Update 更新模板
// PUT /api/v1/schedule-templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", codeTemplateBase+suffixValidation)
	if !ok {
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tpl, err := h.templateSvc.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		handleServiceError(c, codeTemplateBase, err)
		return
	}

	response.OK(c, tpl)
}

// Delete 删除未被引用的模板
// DELETE /api/v1/schedule-templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", codeTemplateBase+suffixValidation)
	if !ok {
		return
	}

	if err := h.templateSvc.Delete(c.Request.Context(), p, id); err != nil {
		handleServiceError(c, codeTemplateBase, err)
		return
	}

	response.OK(c, nil)
}

// ReplaceDays 整体替换星期规则
// PUT /api/v1/schedule-templates/:id/days
func (h *TemplateHandler) ReplaceDays(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", codeTemplateBase+suffixValidation)
	if !ok {
		return
	}

	var req dto.ReplaceDayRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tpl, err := h.templateSvc.ReplaceDayRules(c.Request.Context(), p, id, req.Rules)
	if err != nil {
		handleServiceError(c, codeTemplateBase, err)
		return
	}

	response.OK(c, tpl)
}
