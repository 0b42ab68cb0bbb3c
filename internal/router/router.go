package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/config"
	"github.com/jiujuan/moodjournal-app/internal/handler"
)

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger())

	// 配置会话中间件，应用锁状态保存在会话里
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("moodjournal_session", store))

	// 上传文件的静态访问
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
		auth.GET("/status", api.AuthStatus)
	}

	// 业务路由在应用锁之后
	locked := r.Group("/api")
	locked.Use(api.LockRequired())
	{
		locked.PUT("/auth/passcode", api.SetPasscode)

		entries := locked.Group("/entries")
		{
			entries.GET("", api.ListEntries)
			entries.POST("", api.CreateEntry)
			entries.GET("/:id", api.GetEntry)
			entries.PUT("/:id", api.UpdateEntry)
			entries.DELETE("/:id", api.DeleteEntry)
			entries.GET("/:id/export", api.ExportEntry)
		}

		analytics := locked.Group("/analytics")
		{
			analytics.GET("/trends", api.GetTrends)
			analytics.GET("/emotions", api.GetEmotionStats)
			analytics.GET("/daily-summary", api.GetDailySummary)
			analytics.GET("/daily-emotions", api.GetDailyEmotions)
			analytics.GET("/emotion-pie", api.GetEmotionPie)
		}

		settings := locked.Group("/settings")
		{
			settings.GET("", api.GetSettings)
			settings.GET("/:key", api.GetSetting)
			settings.PUT("/:key", api.UpdateSetting)
		}

		upload := locked.Group("/upload")
		{
			upload.POST("", api.UploadMedia)
			upload.POST("/multiple", api.UploadMediaBatch)
			upload.DELETE("/:id", api.DeleteMedia)
			upload.GET("/entry/:entryId", api.ListEntryMedia)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "API not found"})
	})

	return r
}
