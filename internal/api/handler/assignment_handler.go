package handler

import (
	"github.com/gin-gonic/gin"

	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/service"
	"marcacion/backend/pkg/response"
)

// AssignmentHandler 排班分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.ScheduleAssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.ScheduleAssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Create 为员工分配模板
// POST /api/v1/schedule-assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	a, err := h.assignmentSvc.Assign(c.Request.Context(), p, &req)
	if err != nil {
		handleServiceError(c, codeAssignmentBase, err)
		return
	}

	response.Created(c, a)
}

// ListByEmployee 员工的分配记录
// GET /api/v1/employees/:id/schedule-assignments[?from=&to=]
//
// 同时给出 from 与 to 时只返回与该区间相交的分配，否则返回全部历史
func (h *AssignmentHandler) ListByEmployee(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	employeeID, ok := parseIDParam(c, "id", codeAssignmentBase+suffixValidation)
	if !ok {
		return
	}

	var (
		list []dto.AssignmentResponse
		err  error
	)
	from, to := c.Query("from"), c.Query("to")
	switch {
	case from != "" && to != "":
		list, err = h.assignmentSvc.ListEffective(c.Request.Context(), p, employeeID, from, to)
	case from != "" || to != "":
		response.BadRequest(c, codeAssignmentBase+suffixValidation, "from 与 to 需同时提供")
		return
	default:
		list, err = h.assignmentSvc.ListByEmployee(c.Request.Context(), p, employeeID)
	}
	if err != nil {
		handleServiceError(c, codeAssignmentBase, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}
