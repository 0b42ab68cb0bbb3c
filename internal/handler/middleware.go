package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jiujuan/moodjournal-app/internal/logger"
)

const sessionUnlockedKey = "unlocked"

// RequestLogger 记录每个请求的基础访问日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("requestID", requestID)

		c.Next()

		logger.L.Infow("request",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"clientIP", c.ClientIP(),
			"latency", time.Since(start).String(),
		)
	}
}

// LockRequired 是应用锁中间件：设置了口令后，未解锁的会话拒绝访问。
func (a *API) LockRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.auth.Enabled() {
			c.Next()
			return
		}

		session := sessions.Default(c)
		if unlocked, ok := session.Get(sessionUnlockedKey).(bool); !ok || !unlocked {
			respondError(c, http.StatusUnauthorized, "journal is locked")
			c.Abort()
			return
		}
		c.Next()
	}
}
