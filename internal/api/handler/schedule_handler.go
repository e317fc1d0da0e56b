package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/service"
	"marcacion/backend/pkg/response"
)

// ScheduleHandler 排班解析 HTTP 处理器
type ScheduleHandler struct {
	resolverSvc   service.ScheduleResolverService
	assignmentSvc service.ScheduleAssignmentService
	exportSvc     service.ScheduleExportService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(
	resolverSvc service.ScheduleResolverService,
	assignmentSvc service.ScheduleAssignmentService,
	exportSvc service.ScheduleExportService,
) *ScheduleHandler {
	return &ScheduleHandler{resolverSvc: resolverSvc, assignmentSvc: assignmentSvc, exportSvc: exportSvc}
}

// MyWeek 当前员工在区间内的应出勤时间窗
// GET /api/v1/schedules/my-week?from=&to=
func (h *ScheduleHandler) MyWeek(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.ScheduleWeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	entries, err := h.resolverSvc.ResolveWeek(c.Request.Context(), userID, q.From, q.To)
	if err != nil {
		handleServiceError(c, codeScheduleBase, err)
		return
	}

	response.OK(c, entries)
}

// MyWeekICS 当前员工的排班日历订阅文件
// GET /api/v1/schedules/my-week/ics?from=&to=
func (h *ScheduleHandler) MyWeekICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.ScheduleWeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	data, filename, err := h.exportSvc.ExportWeekICS(c.Request.Context(), userID, q.From, q.To)
	if err != nil {
		handleServiceError(c, codeScheduleBase, err)
		return
	}

	sendFile(c, filename, "text/calendar; charset=utf-8", data)
}

// EmployeeWeek 管理员查看员工排班
// GET /api/v1/employees/:id/schedule-week?from=&to=
func (h *ScheduleHandler) EmployeeWeek(c *gin.Context) {
	employeeID, q, ok := h.bindEmployeeQuery(c)
	if !ok {
		return
	}

	entries, err := h.resolverSvc.ResolveWeek(c.Request.Context(), employeeID, q.From, q.To)
	if err != nil {
		handleServiceError(c, codeScheduleBase, err)
		return
	}

	response.OK(c, entries)
}

// EmployeeWeekExport 导出员工排班为 Excel
// GET /api/v1/employees/:id/schedule-week/export?from=&to=
func (h *ScheduleHandler) EmployeeWeekExport(c *gin.Context) {
	employeeID, q, ok := h.bindEmployeeQuery(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekXLSX(c.Request.Context(), employeeID, q.From, q.To)
	if err != nil {
		handleServiceError(c, codeScheduleBase, err)
		return
	}

	sendFile(c, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// bindEmployeeQuery 解析员工 ID 与查询区间，并校验管理员对该员工的访问范围
func (h *ScheduleHandler) bindEmployeeQuery(c *gin.Context) (int64, dto.ScheduleWeekQuery, bool) {
	var q dto.ScheduleWeekQuery
	p, ok := MustGetPrincipal(c)
	if !ok {
		return 0, q, false
	}
	employeeID, ok := parseIDParam(c, "id", codeScheduleBase+suffixValidation)
	if !ok {
		return 0, q, false
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return 0, q, false
	}
	if err := h.assignmentSvc.CheckEmployeeAccess(c.Request.Context(), p, employeeID); err != nil {
		handleServiceError(c, codeScheduleBase, err)
		return 0, q, false
	}
	return employeeID, q, true
}

func sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}
