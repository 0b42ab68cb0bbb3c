package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// expandStartOfDay 把裸日期补齐成当天起点，已带时间部分的值原样返回。
// 区间比较是 ISO-8601 文本的字典序，这里负责把边界对齐到日历日。
func expandStartOfDay(date string) string {
	if strings.Contains(date, "T") {
		return date
	}
	return date + "T00:00:00.000Z"
}

// expandEndOfDay 把裸日期补齐成当天终点。
func expandEndOfDay(date string) string {
	if strings.Contains(date, "T") {
		return date
	}
	return date + "T23:59:59.999Z"
}
