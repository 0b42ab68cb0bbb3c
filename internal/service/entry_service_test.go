package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jiujuan/moodjournal-app/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := gdb.AutoMigrate(&db.MoodEntry{}, &db.MediaFile{}, &db.UserSetting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestEntryCreateAndGet(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	entry, err := svc.Create(EntryInput{
		Emotion: "happy",
		Notes:   "今天阳光很好",
		Date:    "2024-12-20T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if entry.ID == "" {
		t.Fatal("expected entry to have generated ID")
	}
	if entry.CreatedAt.IsZero() || entry.UpdatedAt.IsZero() {
		t.Fatal("expected server-assigned timestamps")
	}

	got, err := svc.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Emotion != "happy" || got.Notes != "今天阳光很好" || got.Date != "2024-12-20T10:00:00Z" {
		t.Fatalf("unexpected entry fields: %+v", got)
	}

	if _, err := svc.Get("missing-id"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryCreateValidation(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	if _, err := svc.Create(EntryInput{Emotion: "ecstatic", Date: "2024-12-20T10:00:00Z"}); !errors.Is(err, ErrInvalidEmotion) {
		t.Fatalf("expected ErrInvalidEmotion, got %v", err)
	}

	// 裸日期不是合法的时间戳
	if _, err := svc.Create(EntryInput{Emotion: "happy", Date: "2024-12-20"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	long := strings.Repeat("好", MaxNotesLength+1)
	if _, err := svc.Create(EntryInput{Emotion: "happy", Notes: long, Date: "2024-12-20T10:00:00Z"}); !errors.Is(err, ErrNotesTooLong) {
		t.Fatalf("expected ErrNotesTooLong, got %v", err)
	}
}

func TestEntryUpdatePartial(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	entry, err := svc.Create(EntryInput{
		Emotion: "calm",
		Notes:   "原始备注",
		Date:    "2024-12-20T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	before := entry.UpdatedAt
	time.Sleep(20 * time.Millisecond)

	notes := "只改备注"
	updated, err := svc.Update(entry.ID, EntryPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Notes != "只改备注" {
		t.Fatalf("expected notes to update, got %s", updated.Notes)
	}
	if updated.Emotion != "calm" || updated.Date != "2024-12-20T10:00:00Z" {
		t.Fatalf("expected emotion and date unchanged, got %+v", updated)
	}
	if !updated.UpdatedAt.After(before) {
		t.Fatalf("expected updated_at to advance: before=%v after=%v", before, updated.UpdatedAt)
	}

	if _, err := svc.Update("missing-id", EntryPatch{Notes: &notes}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryDeleteCascade(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	entry, err := svc.Create(EntryInput{Emotion: "happy", Date: "2024-12-20T10:00:00Z"})
	if err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	for _, kind := range []string{db.MediaTypePhoto, db.MediaTypeVoice} {
		if _, err := svc.AttachMedia(MediaInput{
			EntryID:  entry.ID,
			FilePath: "/uploads/" + kind + ".bin",
			FileType: kind,
			FileSize: 128,
		}); err != nil {
			t.Fatalf("failed to attach media: %v", err)
		}
	}

	if err := svc.Delete(entry.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	files, err := svc.ListMedia(entry.ID)
	if err != nil {
		t.Fatalf("ListMedia returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected media cascade delete, got %d rows", len(files))
	}

	if err := svc.Delete(entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on second delete, got %v", err)
	}
}

func TestListByDateRangeLexicographic(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	if _, err := svc.Create(EntryInput{Emotion: "happy", Date: "2024-12-20T23:59:59.000Z"}); err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	// 补齐到整天的边界能覆盖当天所有带毫秒的时间戳
	entries, err := svc.ListByDateRange("2024-12-20T00:00:00.000Z", "2024-12-20T23:59:59.999Z")
	if err != nil {
		t.Fatalf("ListByDateRange returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry with normalized boundaries, got %d", len(entries))
	}

	// 裸日期作为右边界时，字典序把带时间部分的值排除在外
	entries, err = svc.ListByDateRange("2024-12-20", "2024-12-20")
	if err != nil {
		t.Fatalf("ListByDateRange returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries with bare-date end boundary, got %d", len(entries))
	}
}

func TestListPaginationAndOrder(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	dates := []string{
		"2024-12-18T08:00:00Z",
		"2024-12-20T08:00:00Z",
		"2024-12-19T08:00:00Z",
	}
	for _, d := range dates {
		if _, err := svc.Create(EntryInput{Emotion: "content", Date: d}); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}
	}

	entries, total, err := svc.List(2, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "2024-12-20T08:00:00Z" || entries[1].Date != "2024-12-19T08:00:00Z" {
		t.Fatalf("expected date descending order, got %s then %s", entries[0].Date, entries[1].Date)
	}
}

func TestListByEmotion(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	for _, emotion := range []string{"happy", "sad", "happy"} {
		if _, err := svc.Create(EntryInput{Emotion: emotion, Date: "2024-12-20T08:00:00Z"}); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}
	}

	entries, err := svc.ListByEmotion("happy")
	if err != nil {
		t.Fatalf("ListByEmotion returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 happy entries, got %d", len(entries))
	}

	if _, err := svc.ListByEmotion("ecstatic"); !errors.Is(err, ErrInvalidEmotion) {
		t.Fatalf("expected ErrInvalidEmotion, got %v", err)
	}
}

func TestAttachMediaValidation(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	if _, err := svc.AttachMedia(MediaInput{
		EntryID:  "missing-id",
		FilePath: "/uploads/a.png",
		FileType: db.MediaTypePhoto,
	}); !errors.Is(err, ErrMediaOwnerMissing) {
		t.Fatalf("expected ErrMediaOwnerMissing, got %v", err)
	}

	entry, err := svc.Create(EntryInput{Emotion: "happy", Date: "2024-12-20T08:00:00Z"})
	if err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	if _, err := svc.AttachMedia(MediaInput{
		EntryID:  entry.ID,
		FilePath: "/uploads/a.txt",
		FileType: "document",
	}); !errors.Is(err, ErrInvalidMediaType) {
		t.Fatalf("expected ErrInvalidMediaType, got %v", err)
	}
}

func TestDeleteMedia(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewEntryService(db.DB)

	entry, err := svc.Create(EntryInput{Emotion: "happy", Date: "2024-12-20T08:00:00Z"})
	if err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	media, err := svc.AttachMedia(MediaInput{
		EntryID:  entry.ID,
		FilePath: "/uploads/a.png",
		FileType: db.MediaTypePhoto,
		FileSize: 64,
	})
	if err != nil {
		t.Fatalf("failed to attach media: %v", err)
	}

	if err := svc.DeleteMedia(media.ID); err != nil {
		t.Fatalf("DeleteMedia returned error: %v", err)
	}
	if err := svc.DeleteMedia(media.ID); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
}
