package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jiujuan/moodjournal-app/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrPasscodeNotSet 表示尚未设置应用锁口令
	ErrPasscodeNotSet = errors.New("passcode not set")
	// ErrPasscodeMismatch 表示口令校验失败
	ErrPasscodeMismatch = errors.New("passcode mismatch")
	// ErrPasscodeTooShort 表示口令长度不足
	ErrPasscodeTooShort = errors.New("passcode too short")
)

// AuthService 管理应用锁口令：口令以 bcrypt 哈希存放在设置表里，
// 为空表示未启用应用锁。
type AuthService struct {
	settings *SettingService
}

// NewAuthService 构造 AuthService。
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{settings: NewSettingService(gdb)}
}

// Enabled 返回是否已设置口令。
func (s *AuthService) Enabled() bool {
	hash, err := s.settings.Get(db.SettingKeyPasscodeHash)
	if err != nil {
		return false
	}
	return strings.TrimSpace(hash) != ""
}

// SetPasscode 设置或更换口令，空口令表示关闭应用锁。
func (s *AuthService) SetPasscode(passcode string) error {
	trimmed := strings.TrimSpace(passcode)
	if trimmed == "" {
		return s.settings.Set(db.SettingKeyPasscodeHash, "")
	}
	if len(trimmed) < 4 {
		return ErrPasscodeTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmed), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash passcode: %w", err)
	}
	return s.settings.Set(db.SettingKeyPasscodeHash, string(hashed))
}

// Verify 校验口令。
func (s *AuthService) Verify(passcode string) error {
	hash, err := s.settings.Get(db.SettingKeyPasscodeHash)
	if err != nil || strings.TrimSpace(hash) == "" {
		return ErrPasscodeNotSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(passcode))); err != nil {
		return ErrPasscodeMismatch
	}
	return nil
}
