package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/logger"
	"github.com/jiujuan/moodjournal-app/internal/service"
)

type passcodePayload struct {
	Passcode string `json:"passcode"`
}

// Login 校验应用锁口令并标记会话已解锁。
func (a *API) Login(c *gin.Context) {
	var payload passcodePayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if err := a.auth.Verify(payload.Passcode); err != nil {
		if errors.Is(err, service.ErrPasscodeNotSet) {
			respondError(c, http.StatusBadRequest, "尚未设置口令")
			return
		}
		respondError(c, http.StatusUnauthorized, "口令错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUnlockedKey, true)
	if err := session.Save(); err != nil {
		logger.L.Errorw("save session failed", "error", err)
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout 清除会话，重新进入锁定状态。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.L.Errorw("save session failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AuthStatus 返回应用锁是否启用以及当前会话是否已解锁。
func (a *API) AuthStatus(c *gin.Context) {
	session := sessions.Default(c)
	unlocked, _ := session.Get(sessionUnlockedKey).(bool)

	respondData(c, http.StatusOK, gin.H{
		"enabled":  a.auth.Enabled(),
		"unlocked": unlocked,
	})
}

// SetPasscode 设置或更换口令；传空口令即关闭应用锁。
// 受 LockRequired 保护：已启用应用锁时必须先解锁才能改口令。
func (a *API) SetPasscode(c *gin.Context) {
	var payload passcodePayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if err := a.auth.SetPasscode(payload.Passcode); err != nil {
		if errors.Is(err, service.ErrPasscodeTooShort) {
			respondError(c, http.StatusBadRequest, "口令至少需要 4 位")
			return
		}
		logger.L.Errorw("set passcode failed", "error", err)
		respondError(c, http.StatusInternalServerError, "设置口令失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
