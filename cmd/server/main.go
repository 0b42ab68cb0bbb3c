package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/config"
	"github.com/jiujuan/moodjournal-app/internal/db"
	"github.com/jiujuan/moodjournal-app/internal/handler"
	"github.com/jiujuan/moodjournal-app/internal/logger"
	"github.com/jiujuan/moodjournal-app/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogDir); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.L.Sync()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库并播种默认设置
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.L.Fatalf("failed to initialize database: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.Setup(api, cfg)

	logger.L.Infow("server starting", "addr", cfg.ListenAddr, "db", cfg.DatabasePath)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.L.Fatalf("failed to run server: %v", err)
	}
}
