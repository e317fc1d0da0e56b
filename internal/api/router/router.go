package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marcacion/backend/config"
	"marcacion/backend/internal/api/handler"
	"marcacion/backend/internal/api/middleware"
	"marcacion/backend/pkg/jwt"
	"marcacion/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleSuperAdmin)
	writeLimit := middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		v1.POST("/auth/logout", h.Auth.Logout)

		// 排班模板
		templates := v1.Group("/schedule-templates", admin)
		{
			templates.GET("", h.Template.List)
			templates.GET("/:id", h.Template.Get)
			templates.POST("", writeLimit, h.Template.Create)
			templates.PUT("/:id", writeLimit, h.Template.Update)
			templates.DELETE("/:id", writeLimit, h.Template.Delete)
			templates.PUT("/:id/days", writeLimit, h.Template.ReplaceDays)
		}

		// 排班分配
		v1.POST("/schedule-assignments", admin, writeLimit, h.Assignment.Create)

		// 员工维度（管理员）
		employees := v1.Group("/employees/:id", admin)
		{
			employees.GET("/schedule-assignments", h.Assignment.ListByEmployee)
			employees.GET("/schedule-week", h.Schedule.EmployeeWeek)
			employees.GET("/schedule-week/export", h.Schedule.EmployeeWeekExport)
		}

		// 本人排班（任意已认证用户）
		schedules := v1.Group("/schedules")
		{
			schedules.GET("/my-week", h.Schedule.MyWeek)
			schedules.GET("/my-week/ics", h.Schedule.MyWeekICS)
		}
	}

	return r
}
