package db

import "time"

// UserSetting 存储用户偏好的键值对，类型含义由应用按键解释。
type UserSetting struct {
	Key       string    `gorm:"size:100;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 自定义表名以保持命名一致。
func (UserSetting) TableName() string {
	return "user_settings"
}

const (
	// SettingKeyTheme 表示界面主题。
	SettingKeyTheme = "theme"
	// SettingKeyNotificationsEnabled 表示是否开启提醒。
	SettingKeyNotificationsEnabled = "notifications_enabled"
	// SettingKeyReminderTime 表示每日提醒时间。
	SettingKeyReminderTime = "reminder_time"
	// SettingKeyFirstDayOfWeek 表示日历的一周起始日。
	SettingKeyFirstDayOfWeek = "first_day_of_week"
	// SettingKeyDataRetentionDays 表示数据保留天数。
	SettingKeyDataRetentionDays = "data_retention_days"
	// SettingKeyPasscodeHash 存储应用锁口令的 bcrypt 哈希，为空表示未启用。
	SettingKeyPasscodeHash = "passcode_hash"
)

// DefaultSettings 是首次启动时写入的默认偏好。
var DefaultSettings = map[string]string{
	SettingKeyTheme:                "light",
	SettingKeyNotificationsEnabled: "true",
	SettingKeyReminderTime:         "20:00",
	SettingKeyFirstDayOfWeek:       "0",
	SettingKeyDataRetentionDays:    "365",
}
