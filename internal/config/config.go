package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string `env:"LISTEN_ADDR"`
	Port          string `env:"PORT"`
	DatabasePath  string `env:"DATABASE_PATH"`
	SessionSecret string `env:"SESSION_SECRET"`
	GinMode       string `env:"GIN_MODE"`
	UploadDir     string `env:"UPLOAD_DIR"`
	UploadURLPath string `env:"UPLOAD_URL_PATH"`
	LogDir        string `env:"LOG_DIR"`
}

// Load 先加载 .env，再从环境变量读取配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "3001"
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		cfg.DatabasePath = "data/mood_journal.db"
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		cfg.SessionSecret = "moodjournal-dev-secret"
	}
	if strings.TrimSpace(cfg.GinMode) == "" {
		cfg.GinMode = "release"
	}
	if strings.TrimSpace(cfg.UploadDir) == "" {
		cfg.UploadDir = "public/uploads"
	}
	if strings.TrimSpace(cfg.UploadURLPath) == "" {
		cfg.UploadURLPath = "/uploads"
	}
	if strings.TrimSpace(cfg.LogDir) == "" {
		cfg.LogDir = "logs"
	}

	return cfg, nil
}
