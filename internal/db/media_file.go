package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MediaTypePhoto 表示图片附件。
	MediaTypePhoto = "photo"
	// MediaTypeVoice 表示语音附件。
	MediaTypeVoice = "voice"
)

// MediaFile 定义条目附件模型
// 附件不能脱离条目存在，删除条目时级联删除
// Width/Height 仅对图片有意义，上传时探测写入
type MediaFile struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EntryID   string    `gorm:"type:varchar(36);not null;index" json:"entry_id"`
	FilePath  string    `gorm:"not null" json:"file_path"`
	FileType  string    `gorm:"size:10;not null;index" json:"file_type"` // photo, voice
	FileSize  int64     `json:"file_size"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 自定义表名以保持与历史数据一致。
func (MediaFile) TableName() string {
	return "media_files"
}

// BeforeCreate 在插入时生成不透明的唯一 ID。
func (m *MediaFile) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
