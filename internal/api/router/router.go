package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unilink/backend/config"
	"unilink/backend/internal/api/handler"
	"unilink/backend/internal/api/middleware"
	"unilink/backend/internal/model"
	"unilink/backend/pkg/jwt"
	"unilink/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户管理模块（HOD 管理面板）
			users := authorized.Group("/users")
			{
				users.PUT("/me/status", h.User.UpdateStatus)
				users.GET("/:id/timetable", h.Timetable.Get)
				users.GET("", middleware.RoleAuth(model.RoleHOD), h.User.List)
				users.GET("/:id", middleware.RoleAuth(model.RoleHOD), h.User.Get)
				users.POST("", middleware.RoleAuth(model.RoleHOD), h.User.Create)
				users.PUT("/:id", middleware.RoleAuth(model.RoleHOD), h.User.Update)
				users.DELETE("/:id", middleware.RoleAuth(model.RoleHOD), h.User.Delete)
			}

			// 人员目录模块
			directory := authorized.Group("/directory")
			{
				directory.GET("", h.Directory.ListByRole)
				directory.GET("/meeting-targets", h.Directory.ListMeetingTargets)
			}

			// 会面申请模块
			meetings := authorized.Group("/meetings")
			{
				meetings.POST("", h.Meeting.Create)
				meetings.GET("/pending", middleware.RoleAuth(model.RoleStaff, model.RoleHOD), h.Meeting.ListPending)
				meetings.PUT("/:id/resolve", middleware.RoleAuth(model.RoleStaff, model.RoleHOD), h.Meeting.Resolve)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 课表模块
			timetables := authorized.Group("/timetables")
			{
				timetables.PUT("/me", h.Timetable.Replace)
				timetables.POST("/import", h.Timetable.ImportFile)
				timetables.POST("/import-url", h.Timetable.ImportURL)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/users", middleware.RoleAuth(model.RoleHOD), h.Export.ExportUsers)
			}

			// 实时提醒推送
			authorized.GET("/ws/alerts", h.Alert.Stream)
		}
	}

	return r
}
