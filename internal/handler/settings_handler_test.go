package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jiujuan/moodjournal-app/internal/db"
)

func TestGetSettingsHidesPasscodeHash(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	if err := db.DB.Create(&db.UserSetting{Key: db.SettingKeyPasscodeHash, Value: "secret-hash"}).Error; err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/settings", nil)

	api.GetSettings(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	if _, exposed := data[db.SettingKeyPasscodeHash]; exposed {
		t.Fatal("expected passcode hash to be hidden")
	}
	if data[db.SettingKeyTheme] != "light" {
		t.Fatalf("expected default theme in snapshot, got %v", data[db.SettingKeyTheme])
	}
}

func TestGetSettingUnknownKey(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/settings/no_such_key", nil)
	c.Params = gin.Params{gin.Param{Key: "key", Value: "no_such_key"}}

	api.GetSetting(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestGetSettingStorageFailure(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	// 关闭底层连接制造存储故障，此时不应再返回 404
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/settings/theme", nil)
	c.Params = gin.Params{gin.Param{Key: "key", Value: "theme"}}

	api.GetSetting(c)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}

func TestUpdateSetting(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/settings/theme", map[string]any{"value": "dark"})
	c.Params = gin.Params{gin.Param{Key: "key", Value: "theme"}}

	api.UpdateSetting(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored db.UserSetting
	if err := db.DB.First(&stored, "key = ?", "theme").Error; err != nil {
		t.Fatalf("expected stored setting: %v", err)
	}
	if stored.Value != "dark" {
		t.Fatalf("expected dark, got %s", stored.Value)
	}
}

func TestUpdateSettingRejectsPasscodeKey(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/settings/passcode_hash", map[string]any{"value": "x"})
	c.Params = gin.Params{gin.Param{Key: "key", Value: db.SettingKeyPasscodeHash}}

	api.UpdateSetting(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
