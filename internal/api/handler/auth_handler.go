package handler

import (
	"github.com/gin-gonic/gin"

	"marcacion/backend/internal/service"
	"marcacion/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
// 登录与刷新由外部认证服务提供，这里只保留注销
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Logout 用户登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := getTokenInfo(c)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
