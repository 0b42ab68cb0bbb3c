package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/logger"
)

// analyticsDateRange 根据 period 推导统计区间，默认最近 30 天。
func analyticsDateRange(period string, now time.Time) (string, string) {
	end := now.UTC()
	var start time.Time

	switch period {
	case "week":
		start = end.AddDate(0, 0, -7)
	case "month":
		start = end.AddDate(0, -1, 0)
	case "year":
		start = end.AddDate(-1, 0, 0)
	default:
		start = end.AddDate(0, 0, -30)
	}

	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}

// GetTrends 返回趋势、情绪占比、词频与连续打卡的汇总数据。
func (a *API) GetTrends(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	var start, end string
	if startDate != "" && endDate != "" {
		start = expandStartOfDay(startDate)
		end = expandEndOfDay(endDate)
	} else {
		start, end = analyticsDateRange(c.Query("period"), time.Now())
	}

	trends, err := a.analytics.MoodTrend(start, end)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	breakdown, err := a.analytics.EmotionBreakdown()
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	rangeEntries, err := a.entries.ListByDateRange(start, end)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	// 连续打卡基于全量条目计算，与统计区间无关
	allEntries, err := a.entries.ListAll()
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"moodTrends":       trends,
		"emotionBreakdown": breakdown,
		"wordFrequency":    a.analytics.WordFrequency(rangeEntries),
		"streakData":       a.analytics.Streaks(allEntries),
	})
}

// GetEmotionStats 返回全库的情绪占比统计。
func (a *API) GetEmotionStats(c *gin.Context) {
	breakdown, err := a.analytics.EmotionBreakdown()
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}
	respondData(c, http.StatusOK, breakdown)
}

// GetDailySummary 返回区间内按（日期，情绪）聚合的摘要。
func (a *API) GetDailySummary(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		respondError(c, http.StatusBadRequest, "startDate 和 endDate 是必填参数")
		return
	}

	summary, err := a.analytics.DailySummary(expandStartOfDay(startDate), expandEndOfDay(endDate))
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"dailySummary": summary})
}

// GetDailyEmotions 返回区间内每天各情绪的条目数。
func (a *API) GetDailyEmotions(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		respondError(c, http.StatusBadRequest, "startDate 和 endDate 是必填参数")
		return
	}

	entries, err := a.entries.ListByDateRange(expandStartOfDay(startDate), expandEndOfDay(endDate))
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"dailyDistribution": a.analytics.DailyEmotionDistribution(entries, ""),
	})
}

// GetEmotionPie 返回单日或区间内的情绪饼图数据。
func (a *API) GetEmotionPie(c *gin.Context) {
	date := c.Query("date")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	var (
		start, end string
		label      string
	)

	switch {
	case date != "":
		// 单日查询：下一天的裸日期作为右边界，依赖字典序恰好覆盖当天全部时间戳
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			respondError(c, http.StatusBadRequest, "日期格式无效")
			return
		}
		start = date
		end = parsed.AddDate(0, 0, 1).Format("2006-01-02")
		label = date
	case startDate != "" && endDate != "":
		start = startDate
		end = endDate
		label = fmt.Sprintf("%s to %s", startDate, endDate)
	default:
		respondError(c, http.StatusBadRequest, "需要提供 date 或同时提供 startDate 和 endDate")
		return
	}

	entries, err := a.entries.ListByDateRange(start, end)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"pieData":      a.analytics.EmotionPieData(entries),
		"totalEntries": len(entries),
		"date":         label,
	})
}

func handleAnalyticsError(c *gin.Context, err error) {
	logger.L.Errorw("analytics handler error", "error", err)
	respondError(c, http.StatusInternalServerError, "获取统计数据失败")
}
