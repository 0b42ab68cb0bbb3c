package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	// 清空相关变量，验证缺省值
	for _, key := range []string{"LISTEN_ADDR", "PORT", "DATABASE_PATH", "SESSION_SECRET", "GIN_MODE", "UPLOAD_DIR", "UPLOAD_URL_PATH", "LOG_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "3001" {
		t.Fatalf("expected default port 3001, got %s", cfg.Port)
	}
	if cfg.ListenAddr != ":3001" {
		t.Fatalf("expected listen addr :3001, got %s", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "data/mood_journal.db" {
		t.Fatalf("expected default database path, got %s", cfg.DatabasePath)
	}
	if cfg.UploadURLPath != "/uploads" {
		t.Fatalf("expected default upload url path, got %s", cfg.UploadURLPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected listen addr :8080, got %s", cfg.ListenAddr)
	}
	if cfg.GinMode != "debug" {
		t.Fatalf("expected debug mode, got %s", cfg.GinMode)
	}
}
