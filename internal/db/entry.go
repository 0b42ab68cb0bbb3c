package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodEntry 定义心情日记条目模型
// Date 记录用户选择的心情发生时间，存储为 ISO-8601 文本，
// 区间查询按字符串比较，调用方需要自行把边界补齐到整天
// Notes 为可选的自由文本，长度限制在服务层校验
type MoodEntry struct {
	ID        string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Emotion   string      `gorm:"size:20;not null;index" json:"emotion"`
	Notes     string      `gorm:"type:text" json:"notes"`
	Date      string      `gorm:"size:40;not null;index:idx_entries_date" json:"date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Media     []MediaFile `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"mediaFiles,omitempty"`
}

// TableName 自定义表名以保持与历史数据一致。
func (MoodEntry) TableName() string {
	return "entries"
}

// BeforeCreate 在插入时生成不透明的唯一 ID。
func (e *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Emotions 是固定的情绪标签集合。
var Emotions = []string{
	"happy", "sad", "anxious", "calm", "excited",
	"stressed", "peaceful", "frustrated", "content", "overwhelmed",
}

// ValidEmotion 判断标签是否属于固定集合。
func ValidEmotion(emotion string) bool {
	for _, e := range Emotions {
		if e == emotion {
			return true
		}
	}
	return false
}
