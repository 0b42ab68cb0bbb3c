package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jiujuan/moodjournal-app/internal/db"
	"gorm.io/gorm"
)

// MaxNotesLength 是备注文本的最大长度（按字符计）。
const MaxNotesLength = 500

var (
	// ErrEntryNotFound 在指定条目不存在时返回
	ErrEntryNotFound = errors.New("entry not found")
	// ErrMediaNotFound 在指定附件不存在时返回
	ErrMediaNotFound = errors.New("media file not found")
	// ErrInvalidEmotion 当情绪标签不在固定集合内时返回
	ErrInvalidEmotion = errors.New("invalid emotion")
	// ErrInvalidDate 当日期无法按 ISO-8601 解析时返回
	ErrInvalidDate = errors.New("invalid date")
	// ErrNotesTooLong 当备注超出长度限制时返回
	ErrNotesTooLong = errors.New("notes too long")
	// ErrInvalidMediaType 当附件类型不是 photo/voice 时返回
	ErrInvalidMediaType = errors.New("invalid media type")
	// ErrMediaOwnerMissing 当附件指向的条目不存在时返回（外键约束）
	ErrMediaOwnerMissing = errors.New("media owner entry not found")
)

// EntryService 负责 MoodEntry 与 MediaFile 数据的增删改查
// 条目与附件的生命周期只通过这里变更，保持与 handler 解耦

type EntryService struct {
	db *gorm.DB
}

// EntryInput 定义创建条目时可配置字段
type EntryInput struct {
	Emotion string
	Notes   string
	Date    string
}

// EntryPatch 定义部分更新时的字段，nil 表示保持原值
type EntryPatch struct {
	Emotion *string
	Notes   *string
	Date    *string
}

// MediaInput 定义创建附件时的字段
type MediaInput struct {
	EntryID  string
	FilePath string
	FileType string
	FileSize int64
	Width    int
	Height   int
}

// NewEntryService 构造 EntryService
func NewEntryService(gdb *gorm.DB) *EntryService {
	return &EntryService{db: gdb}
}

// Create 新建条目，情绪与日期在此校验
func (s *EntryService) Create(input EntryInput) (*db.MoodEntry, error) {
	if err := validateEmotion(input.Emotion); err != nil {
		return nil, err
	}
	if err := validateDate(input.Date); err != nil {
		return nil, err
	}
	if err := validateNotes(input.Notes); err != nil {
		return nil, err
	}

	entry := db.MoodEntry{
		Emotion: input.Emotion,
		Notes:   input.Notes,
		Date:    input.Date,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return &entry, nil
}

// Get 根据 ID 获取条目，附带其全部附件
func (s *EntryService) Get(id string) (*db.MoodEntry, error) {
	var entry db.MoodEntry
	if err := s.db.Preload("Media").First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &entry, nil
}

// List 返回条目分页，按心情时间倒序，并返回总数
func (s *EntryService) List(limit, offset int) ([]db.MoodEntry, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&db.MoodEntry{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	var entries []db.MoodEntry
	if err := s.db.Order("date DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}

	return entries, total, nil
}

// ListAll 返回全部条目，按心情时间倒序，供统计使用
func (s *EntryService) ListAll() ([]db.MoodEntry, error) {
	var entries []db.MoodEntry
	if err := s.db.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return entries, nil
}

// ListByDateRange 返回 [start, end] 闭区间内的条目，按心情时间倒序。
// 注意：区间比较是 ISO-8601 文本的字典序比较，而不是日历语义的比较，
// 调用方需要把裸日期边界补齐为当天起止时间（T00:00:00.000Z / T23:59:59.999Z）。
func (s *EntryService) ListByDateRange(start, end string) ([]db.MoodEntry, error) {
	var entries []db.MoodEntry
	if err := s.db.Where("date BETWEEN ? AND ?", start, end).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries by date range: %w", err)
	}
	return entries, nil
}

// ListByEmotion 返回指定情绪的全部条目，按心情时间倒序
func (s *EntryService) ListByEmotion(emotion string) ([]db.MoodEntry, error) {
	if err := validateEmotion(emotion); err != nil {
		return nil, err
	}

	var entries []db.MoodEntry
	if err := s.db.Where("emotion = ?", emotion).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries by emotion: %w", err)
	}
	return entries, nil
}

// Update 部分更新条目：只有提供的字段会被合并，updated_at 随之刷新
func (s *EntryService) Update(id string, patch EntryPatch) (*db.MoodEntry, error) {
	var existing db.MoodEntry
	if err := s.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}

	if patch.Emotion != nil {
		if err := validateEmotion(*patch.Emotion); err != nil {
			return nil, err
		}
		existing.Emotion = *patch.Emotion
	}
	if patch.Date != nil {
		if err := validateDate(*patch.Date); err != nil {
			return nil, err
		}
		existing.Date = *patch.Date
	}
	if patch.Notes != nil {
		if err := validateNotes(*patch.Notes); err != nil {
			return nil, err
		}
		existing.Notes = *patch.Notes
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return &existing, nil
}

// Delete 删除条目及其全部附件记录，整体在一个事务内完成。
// 零行受影响与删除成功是不同的结果：前者返回 ErrEntryNotFound。
func (s *EntryService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&db.MediaFile{}).Error; err != nil {
			return fmt.Errorf("delete entry media: %w", err)
		}

		result := tx.Delete(&db.MoodEntry{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("delete entry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrEntryNotFound
		}
		return nil
	})
}

// AttachMedia 为条目创建一条附件记录，条目不存在时拒绝
func (s *EntryService) AttachMedia(input MediaInput) (*db.MediaFile, error) {
	if input.FileType != db.MediaTypePhoto && input.FileType != db.MediaTypeVoice {
		return nil, ErrInvalidMediaType
	}

	var count int64
	if err := s.db.Model(&db.MoodEntry{}).Where("id = ?", input.EntryID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check entry exists: %w", err)
	}
	if count == 0 {
		return nil, ErrMediaOwnerMissing
	}

	media := db.MediaFile{
		EntryID:  input.EntryID,
		FilePath: input.FilePath,
		FileType: input.FileType,
		FileSize: input.FileSize,
		Width:    input.Width,
		Height:   input.Height,
	}

	if err := s.db.Create(&media).Error; err != nil {
		return nil, fmt.Errorf("attach media: %w", err)
	}
	return &media, nil
}

// ListMedia 返回条目的全部附件
func (s *EntryService) ListMedia(entryID string) ([]db.MediaFile, error) {
	var files []db.MediaFile
	if err := s.db.Where("entry_id = ?", entryID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return files, nil
}

// GetMedia 根据 ID 获取附件
func (s *EntryService) GetMedia(id string) (*db.MediaFile, error) {
	var media db.MediaFile
	if err := s.db.First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return &media, nil
}

// DeleteMedia 删除单条附件记录，磁盘文件由调用方负责清理
func (s *EntryService) DeleteMedia(id string) error {
	result := s.db.Delete(&db.MediaFile{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete media: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMediaNotFound
	}
	return nil
}

func validateEmotion(emotion string) error {
	if !db.ValidEmotion(emotion) {
		return fmt.Errorf("%w: %s", ErrInvalidEmotion, emotion)
	}
	return nil
}

func validateDate(date string) error {
	trimmed := strings.TrimSpace(date)
	if trimmed == "" {
		return ErrInvalidDate
	}
	if _, err := time.Parse(time.RFC3339, trimmed); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}
