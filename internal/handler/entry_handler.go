package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/db"
	"github.com/jiujuan/moodjournal-app/internal/logger"
	"github.com/jiujuan/moodjournal-app/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type entryPayload struct {
	Emotion   string `json:"emotion"`
	Notes     string `json:"notes"`
	Date      string `json:"date"`
	PhotoPath string `json:"photoPath"`
	VoicePath string `json:"voicePath"`
}

type entryPatchPayload struct {
	Emotion *string `json:"emotion"`
	Notes   *string `json:"notes"`
	Date    *string `json:"date"`
}

// ListEntries 返回条目列表，支持日期区间、情绪过滤与分页三种方式。
func (a *API) ListEntries(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	emotion := c.Query("emotion")

	var (
		entries []db.MoodEntry
		total   int64
		err     error
	)

	switch {
	case startDate != "" && endDate != "":
		// 裸日期边界补齐到整天，区间本身是字符串比较
		entries, err = a.entries.ListByDateRange(expandStartOfDay(startDate), expandEndOfDay(endDate))
		total = int64(len(entries))
	case emotion != "":
		entries, err = a.entries.ListByEmotion(emotion)
		total = int64(len(entries))
	default:
		limit := parseIntQuery(c, "limit", 20)
		offset := parseIntQuery(c, "offset", 0)
		entries, total, err = a.entries.List(limit, offset)
	}

	if err != nil {
		handleEntryError(c, err, "获取条目列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries, "total": total})
}

// GetEntry 返回单个条目及其附件。
func (a *API) GetEntry(c *gin.Context) {
	entry, err := a.entries.Get(c.Param("id"))
	if err != nil {
		handleEntryError(c, err, "获取条目失败")
		return
	}
	respondData(c, http.StatusOK, entry)
}

// CreateEntry 创建条目，允许同时登记已上传的图片/语音路径。
func (a *API) CreateEntry(c *gin.Context) {
	var payload entryPayload
	if !bindJSON(c, &payload, "无效的条目数据") {
		return
	}

	entry, err := a.entries.Create(service.EntryInput{
		Emotion: payload.Emotion,
		Notes:   payload.Notes,
		Date:    payload.Date,
	})
	if err != nil {
		handleEntryError(c, err, "创建条目失败")
		return
	}

	if payload.PhotoPath != "" {
		if _, err := a.entries.AttachMedia(service.MediaInput{
			EntryID:  entry.ID,
			FilePath: payload.PhotoPath,
			FileType: db.MediaTypePhoto,
		}); err != nil {
			logger.L.Warnw("attach photo failed", "entryID", entry.ID, "error", err)
		}
	}
	if payload.VoicePath != "" {
		if _, err := a.entries.AttachMedia(service.MediaInput{
			EntryID:  entry.ID,
			FilePath: payload.VoicePath,
			FileType: db.MediaTypeVoice,
		}); err != nil {
			logger.L.Warnw("attach voice failed", "entryID", entry.ID, "error", err)
		}
	}

	respondData(c, http.StatusCreated, entry)
}

// UpdateEntry 部分更新：只有请求里出现的字段才会改动。
func (a *API) UpdateEntry(c *gin.Context) {
	var payload entryPatchPayload
	if !bindJSON(c, &payload, "无效的条目数据") {
		return
	}

	entry, err := a.entries.Update(c.Param("id"), service.EntryPatch{
		Emotion: payload.Emotion,
		Notes:   payload.Notes,
		Date:    payload.Date,
	})
	if err != nil {
		handleEntryError(c, err, "更新条目失败")
		return
	}

	respondData(c, http.StatusOK, entry)
}

// DeleteEntry 删除条目并级联删除附件记录。
func (a *API) DeleteEntry(c *gin.Context) {
	if err := a.entries.Delete(c.Param("id")); err != nil {
		handleEntryError(c, err, "删除条目失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportEntry 把条目备注按 Markdown 渲染为净化后的 HTML，供分享/导出使用。
func (a *API) ExportEntry(c *gin.Context) {
	entry, err := a.entries.Get(c.Param("id"))
	if err != nil {
		handleEntryError(c, err, "获取条目失败")
		return
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(entry.Notes), &buf); err != nil {
		respondError(c, http.StatusInternalServerError, "渲染备注失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"id":      entry.ID,
		"emotion": entry.Emotion,
		"date":    entry.Date,
		"html":    sanitizer.Sanitize(buf.String()),
	})
}

func handleEntryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		respondError(c, http.StatusNotFound, "条目不存在")
	case errors.Is(err, service.ErrMediaNotFound):
		respondError(c, http.StatusNotFound, "附件不存在")
	case errors.Is(err, service.ErrInvalidEmotion):
		respondError(c, http.StatusBadRequest, "情绪标签不在允许的集合内")
	case errors.Is(err, service.ErrInvalidDate):
		respondError(c, http.StatusBadRequest, "日期格式无效")
	case errors.Is(err, service.ErrNotesTooLong):
		respondError(c, http.StatusBadRequest, "备注超出长度限制")
	case errors.Is(err, service.ErrInvalidMediaType):
		respondError(c, http.StatusBadRequest, "附件类型只能是 photo 或 voice")
	case errors.Is(err, service.ErrMediaOwnerMissing):
		respondError(c, http.StatusBadRequest, "附件指向的条目不存在")
	default:
		logger.L.Errorw("entry handler error", "error", err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
