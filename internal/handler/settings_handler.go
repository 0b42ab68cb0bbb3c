package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/db"
	"github.com/jiujuan/moodjournal-app/internal/logger"
	"github.com/jiujuan/moodjournal-app/internal/service"
)

type settingPayload struct {
	Value string `json:"value"`
}

// GetSettings 返回全部偏好快照，口令哈希不对外暴露。
func (a *API) GetSettings(c *gin.Context) {
	snapshot, err := a.settings.GetAll()
	if err != nil {
		logger.L.Errorw("load settings failed", "error", err)
		respondError(c, http.StatusInternalServerError, "获取设置失败")
		return
	}

	delete(snapshot, db.SettingKeyPasscodeHash)
	respondData(c, http.StatusOK, snapshot)
}

// GetSetting 返回单个偏好，未设置过的键回退默认值。
func (a *API) GetSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" || key == db.SettingKeyPasscodeHash {
		respondError(c, http.StatusBadRequest, "无效的设置键")
		return
	}

	value, err := a.settings.Get(key)
	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		respondError(c, http.StatusNotFound, "设置不存在")
		return
	case err != nil:
		logger.L.Errorw("load setting failed", "key", key, "error", err)
		respondError(c, http.StatusInternalServerError, "获取设置失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{"key": key, "value": value})
}

// UpdateSetting 写入单个偏好，存在则覆盖。
func (a *API) UpdateSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" || key == db.SettingKeyPasscodeHash {
		respondError(c, http.StatusBadRequest, "无效的设置键")
		return
	}

	var payload settingPayload
	if !bindJSON(c, &payload, "无效的设置数据") {
		return
	}

	if err := a.settings.Set(key, payload.Value); err != nil {
		logger.L.Errorw("save setting failed", "key", key, "error", err)
		respondError(c, http.StatusInternalServerError, "保存设置失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{"key": key, "value": payload.Value})
}
