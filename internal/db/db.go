package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 data/mood_journal.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "data/mood_journal.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite 默认不启用外键约束，媒体文件的级联删除依赖它
	if err = DB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&MoodEntry{},
		&MediaFile{},
		&UserSetting{},
	); err != nil {
		return err
	}

	return SeedDefaultSettings(DB)
}

// SeedDefaultSettings 写入默认偏好设置，已存在的键不会被覆盖。
// 进程启动时调用一次即可，重复调用是幂等的。
func SeedDefaultSettings(gdb *gorm.DB) error {
	for key, value := range DefaultSettings {
		setting := UserSetting{Key: key, Value: value}
		if err := gdb.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&setting).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
