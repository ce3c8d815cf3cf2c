package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contest-arena/backend/config"
	"contest-arena/backend/internal/api/handler"
	"contest-arena/backend/internal/api/middleware"
	"contest-arena/backend/pkg/jwt"
	"contest-arena/backend/pkg/redis"
)

// maxBodyBytes 全局请求体上限（1MB，投稿只提交链接不传文件）
const maxBodyBytes = 1 << 20

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
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；敏感入口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/verify-email", h.Auth.VerifyEmail)
			auth.POST("/resend-verification", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.ResendVerification)
			auth.POST("/forgot-password", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.ForgotPassword)
			auth.POST("/reset-password", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.ResetPassword)
			auth.GET("/reset-password/verify", h.Auth.VerifyResetToken)
		}

		// 公开只读模块
		v1.GET("/competitions", h.Competition.List)
		v1.GET("/competitions/:slug", h.Competition.GetBySlug)
		v1.GET("/leaderboard/:slug", h.Leaderboard.Get)

		// 清理接口（静态令牌，供外部 cron 调用）
		cleanup := v1.Group("/admin/cleanup-tokens")
		cleanup.Use(middleware.CleanupAuth(cfg.Cleanup.AdminToken))
		{
			cleanup.POST("", h.Cleanup.Cleanup)
			cleanup.GET("/stats", h.Cleanup.Statistics)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 当前用户
			authorized.GET("/users/me", h.Auth.GetCurrentUser)
			authorized.POST("/users/me/password", h.Auth.ChangePassword)

			// 投稿模块（参赛者）
			submissions := authorized.Group("/submissions")
			{
				submissions.POST("", h.Submission.Create)
				submissions.GET("", h.Submission.ListMine)
				submissions.GET("/:id", h.Submission.Get)
				submissions.GET("/:id/messages", h.Submission.ListMessages)
				submissions.POST("/:id/messages", h.Submission.AddMessage)
			}

			// 管理端
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth("admin"))
			{
				// 投稿评审
				admin.GET("/submissions", h.Review.List)
				admin.GET("/submissions/:id", h.Review.Get)
				admin.PUT("/submissions/:id/score", h.Review.Score)
				admin.PUT("/submissions/:id/status", h.Review.UpdateStatus)
				admin.PUT("/submissions/:id/disqualify", h.Review.Disqualify)
				admin.PUT("/submissions/:id/access-check", h.Review.RecordAccessCheck)
				admin.GET("/submissions/:id/messages", h.Submission.ListMessages)
				admin.POST("/submissions/:id/messages", h.Submission.AddMessage)

				// 平台设置
				admin.GET("/settings", h.Settings.Get)
				admin.PUT("/settings", h.Settings.Update)
				admin.POST("/settings/advance-interval", h.Settings.AdvanceInterval)

				// 用户管理
				admin.GET("/users", h.User.List)
				admin.GET("/users/:id", h.User.Get)
				admin.POST("/users/:id/activate", h.User.Activate)
				admin.POST("/users/:id/deactivate", h.User.Deactivate)

				// 竞赛管理
				admin.GET("/competitions", h.Competition.ListAll)
				admin.POST("/competitions", h.Competition.Create)
				admin.PUT("/competitions/:id", h.Competition.Update)

				// 导出
				admin.GET("/export/submissions", h.Export.ExportSubmissions)
			}
		}
	}

	return r
}
