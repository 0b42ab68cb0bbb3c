package service

import (
	"errors"
	"fmt"

	"github.com/jiujuan/moodjournal-app/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSettingNotFound 当键既没有存储值也没有默认值时返回
var ErrSettingNotFound = errors.New("setting not found")

// SettingService 提供用户偏好的读取与更新能力。
type SettingService struct {
	db *gorm.DB
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

// Get 读取单个设置，未设置过的键回退到文档化的默认值。
func (s *SettingService) Get(key string) (string, error) {
	var setting db.UserSetting
	err := s.db.First(&setting, "key = ?", key).Error
	if err == nil {
		return setting.Value, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}

	if value, ok := db.DefaultSettings[key]; ok {
		return value, nil
	}
	return "", ErrSettingNotFound
}

// Set 写入设置，存在则覆盖并刷新 updated_at。
func (s *SettingService) Set(key, value string) error {
	setting := db.UserSetting{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// GetAll 返回当前全部键值快照，未写入的键用默认值补齐。
func (s *SettingService) GetAll() (map[string]string, error) {
	snapshot := make(map[string]string, len(db.DefaultSettings))
	for key, value := range db.DefaultSettings {
		snapshot[key] = value
	}

	var records []db.UserSetting
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	for _, record := range records {
		snapshot[record.Key] = record.Value
	}

	return snapshot, nil
}
