package handler

import "marcacion/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Template   *TemplateHandler
	Assignment *AssignmentHandler
	Schedule   *ScheduleHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Template:   NewTemplateHandler(svc.Template),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Schedule:   NewScheduleHandler(svc.Resolver, svc.Assignment, svc.Export),
	}
}
