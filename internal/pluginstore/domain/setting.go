package domain

import "time"

// PluginSetting 플러그인 개별 설정 (key-value)
type PluginSetting struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	PluginName   string    `gorm:"size:100;uniqueIndex:uk_plugin_setting" json:"plugin_name"`
	SettingKey   string    `gorm:"size:200;uniqueIndex:uk_plugin_setting" json:"setting_key"`
	SettingValue *string   `gorm:"type:text" json:"setting_value"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName GORM 테이블명
func (PluginSetting) TableName() string {
	return "plugin_settings"
}

// PluginEvent 플러그인 이벤트 감사 로그
type PluginEvent struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	PluginName string    `gorm:"size:100;index:idx_plugin_event" json:"plugin_name"`
	EventType  string    `gorm:"size:30" json:"event_type"` // enabled, disabled, config_changed, error
	Details    *string   `gorm:"type:text" json:"details"`
	ActorID    *string   `gorm:"size:100" json:"actor_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_plugin_event" json:"created_at"`
}

// TableName GORM 테이블명
func (PluginEvent) TableName() string {
	return "plugin_events"
}

// 이벤트 타입 상수
const (
	EventEnabled       = "enabled"
	EventDisabled      = "disabled"
	EventConfigChanged = "config_changed"
	EventError         = "error"
)
