package service

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jiujuan/moodjournal-app/internal/db"
	"gorm.io/gorm"
)

const (
	dayFormat   = "2006-01-02"
	topWordsCap = 50
)

// moodScores 把情绪标签映射到 1-5 的心情分值，未知标签按中性的 3 计。
var moodScores = map[string]float64{
	"happy":       5,
	"excited":     5,
	"content":     4,
	"peaceful":    4,
	"calm":        3,
	"frustrated":  2,
	"stressed":    2,
	"anxious":     1,
	"sad":         1,
	"overwhelmed": 1,
}

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// MoodTrendPoint 表示趋势图中单日的平均心情
type MoodTrendPoint struct {
	Date       string  `json:"date"`
	AvgMood    float64 `json:"avg_mood"`
	EntryCount int     `json:"entry_count"`
}

// EmotionStat 表示某个情绪的数量与占比
type EmotionStat struct {
	Emotion    string  `json:"emotion"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// WordCount 表示备注里某个词的出现次数
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// StreakStats 汇总连续打卡数据
type StreakStats struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	TotalEntries  int `json:"total_entries"`
}

// DailySummaryRow 表示按（日期，情绪）聚合的条目数与拼接备注
type DailySummaryRow struct {
	Day           string `json:"day"`
	Emotion       string `json:"emotion"`
	EntryCount    int    `json:"entry_count"`
	CombinedNotes string `json:"combined_notes"`
}

// AnalyticsService 基于条目数据派生统计结果，本身无状态，每次请求重新计算。
type AnalyticsService struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// NewAnalyticsService 构造 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb, nowFn: time.Now}
}

// WithNow 允许在测试中固定"今天"，避免连续打卡计算依赖真实时钟。
func (s *AnalyticsService) WithNow(nowFn func() time.Time) *AnalyticsService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// MoodTrend 按日历日聚合 [start, end] 内的条目，输出每日条目数与平均心情分，
// 日期升序。平均分四舍五入保留两位小数。
func (s *AnalyticsService) MoodTrend(start, end string) ([]MoodTrendPoint, error) {
	var entries []db.MoodEntry
	if err := s.db.Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load trend entries: %w", err)
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	days := make([]string, 0)

	for _, entry := range entries {
		day := entryDay(entry.Date)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
			days = append(days, day)
		}
		b.sum += moodScore(entry.Emotion)
		b.count++
	}

	sort.Strings(days)

	points := make([]MoodTrendPoint, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		points = append(points, MoodTrendPoint{
			Date:       day,
			AvgMood:    round2(b.sum / float64(b.count)),
			EntryCount: b.count,
		})
	}

	return points, nil
}

// EmotionBreakdown 统计整个存储中每种情绪的条目数与占比，按数量降序。
// 存储为空时返回空切片而不是错误。
func (s *AnalyticsService) EmotionBreakdown() ([]EmotionStat, error) {
	var rows []struct {
		Emotion string
		Count   int
	}
	if err := s.db.Model(&db.MoodEntry{}).
		Select("emotion, COUNT(*) as count").
		Group("emotion").
		Order("count DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("emotion breakdown: %w", err)
	}

	total := 0
	for _, row := range rows {
		total += row.Count
	}

	stats := make([]EmotionStat, 0, len(rows))
	if total == 0 {
		return stats, nil
	}

	for _, row := range rows {
		stats = append(stats, EmotionStat{
			Emotion:    row.Emotion,
			Count:      row.Count,
			Percentage: round2(float64(row.Count) / float64(total) * 100),
		})
	}

	return stats, nil
}

// WordFrequency 统计备注文本的词频：小写化、去掉非字母数字字符、按空白切分，
// 丢弃长度不超过 2 的词，返回出现次数最多的前 50 个。
// 并列时按首次出现的顺序排列，这个并列顺序不保证跨实现稳定。
func (s *AnalyticsService) WordFrequency(entries []db.MoodEntry) []WordCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, entry := range entries {
		if entry.Notes == "" {
			continue
		}
		cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(entry.Notes), "")
		for _, word := range strings.Fields(cleaned) {
			if len(word) <= 2 {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	result := make([]WordCount, 0, len(order))
	for _, word := range order {
		result = append(result, WordCount{Word: word, Count: counts[word]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if len(result) > topWordsCap {
		result = result[:topWordsCap]
	}
	return result
}

// Streaks 基于全量条目计算当前连续天数、最长连续天数与条目总数。
// 日历日按条目 date 的日期部分归并，当前连续从今天往回数，遇到空档即停。
func (s *AnalyticsService) Streaks(entries []db.MoodEntry) StreakStats {
	stats := StreakStats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	daySet := make(map[string]bool)
	for _, entry := range entries {
		daySet[entryDay(entry.Date)] = true
	}

	// 当前连续：从今天开始往回逐日检查。
	// 条目日期取自 UTC ISO 字符串的日期部分，这里同样按 UTC 取今天。
	check := s.nowFn().UTC()
	for daySet[check.Format(dayFormat)] {
		stats.CurrentStreak++
		check = check.AddDate(0, 0, -1)
	}

	// 最长连续：对去重后的日期序列找最长的连续段
	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Strings(days)

	run := 1
	stats.LongestStreak = 1
	for i := 1; i < len(days); i++ {
		prev, err1 := time.Parse(dayFormat, days[i-1])
		curr, err2 := time.Parse(dayFormat, days[i])
		if err1 == nil && err2 == nil && curr.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > stats.LongestStreak {
			stats.LongestStreak = run
		}
	}

	return stats
}

// DailyEmotionDistribution 先按日历日、再按情绪对条目分桶，
// targetDate 非空时只统计指定日期。
func (s *AnalyticsService) DailyEmotionDistribution(entries []db.MoodEntry, targetDate string) map[string]map[string]int {
	distribution := make(map[string]map[string]int)

	for _, entry := range entries {
		day := entryDay(entry.Date)
		if targetDate != "" && day != targetDate {
			continue
		}
		if distribution[day] == nil {
			distribution[day] = make(map[string]int)
		}
		distribution[day][entry.Emotion]++
	}

	return distribution
}

// EmotionPieData 统计给定条目子集内每种情绪的数量与占比，按数量降序。
// 子集为空时返回空切片。
func (s *AnalyticsService) EmotionPieData(entries []db.MoodEntry) []EmotionStat {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, entry := range entries {
		if _, seen := counts[entry.Emotion]; !seen {
			order = append(order, entry.Emotion)
		}
		counts[entry.Emotion]++
	}

	total := len(entries)
	stats := make([]EmotionStat, 0, len(order))
	if total == 0 {
		return stats
	}

	for _, emotion := range order {
		stats = append(stats, EmotionStat{
			Emotion:    emotion,
			Count:      counts[emotion],
			Percentage: round2(float64(counts[emotion]) / float64(total) * 100),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	return stats
}

// DailySummary 返回 [start, end] 内按（日期，情绪）聚合的条目数与拼接备注。
func (s *AnalyticsService) DailySummary(start, end string) ([]DailySummaryRow, error) {
	var rows []DailySummaryRow
	if err := s.db.Model(&db.MoodEntry{}).
		Select("DATE(date) as day, emotion, COUNT(*) as entry_count, GROUP_CONCAT(notes, ' ') as combined_notes").
		Where("date BETWEEN ? AND ?", start, end).
		Group("DATE(date), emotion").
		Order("day DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	return rows, nil
}

func moodScore(emotion string) float64 {
	if score, ok := moodScores[emotion]; ok {
		return score
	}
	return 3
}

func entryDay(date string) string {
	if len(date) >= len(dayFormat) {
		return date[:len(dayFormat)]
	}
	return date
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
