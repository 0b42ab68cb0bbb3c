package handler

import (
	"github.com/jiujuan/moodjournal-app/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	entries   *service.EntryService
	settings  *service.SettingService
	analytics *service.AnalyticsService
	auth      *service.AuthService
	uploadDir string
	uploadURL string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:        db,
		entries:   service.NewEntryService(db),
		settings:  service.NewSettingService(db),
		analytics: service.NewAnalyticsService(db),
		auth:      service.NewAuthService(db),
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}
