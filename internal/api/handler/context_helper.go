package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marcacion/backend/internal/service"
	"marcacion/backend/pkg/jwt"
	"marcacion/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetPrincipal 由上下文中的身份信息构造业务层 Principal。
// site_id 可缺省（未绑定站点的账号）。
func MustGetPrincipal(c *gin.Context) (service.Principal, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Principal{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Principal{}, false
	}

	p := service.Principal{UserID: userID, IsSuperAdmin: role == jwt.RoleSuperAdmin}
	if v, exists := c.Get("site_id"); exists {
		if siteID, ok := v.(*int64); ok {
			p.SiteID = siteID
		}
	}
	return p, true
}

// getTokenInfo 提取当前 Token 的 jti 与过期时间（注销使用）
func getTokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString("token_jti")
	v, exists := c.Get("token_exp")
	if jti == "" || !exists {
		return "", time.Time{}, false
	}
	exp, ok := v.(time.Time)
	return jti, exp, ok
}

// parseIDParam 解析路径中的正整数 ID，失败时写入 400 响应
func parseIDParam(c *gin.Context, name string, code int) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, code, "ID 格式无效")
		return 0, false
	}
	return id, true
}
