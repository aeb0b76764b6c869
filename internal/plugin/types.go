package plugin

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PluginManifest plugin.yaml 스키마
type PluginManifest struct {
	// 기본 정보 (필수)
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	License     string `yaml:"license"`
	Homepage    string `yaml:"homepage"`

	// 설정 스키마 (선택)
	Settings []SettingConfig `yaml:"settings"`
}

// SettingConfig 설정 스키마
type SettingConfig struct {
	Key     string      `yaml:"key"`
	Type    string      `yaml:"type"`
	Default interface{} `yaml:"default"`
	Label   string      `yaml:"label"`
}

// Defaults 설정 기본값 맵
func (m *PluginManifest) Defaults() map[string]interface{} {
	out := make(map[string]interface{}, len(m.Settings))
	for _, s := range m.Settings {
		out[s.Key] = s.Default
	}
	return out
}

// PluginStatus 플러그인 상태
type PluginStatus string

const (
	StatusDisabled PluginStatus = "disabled"
	StatusEnabled  PluginStatus = "enabled"
	StatusError    PluginStatus = "error"
)

// PluginInfo 로드된 플러그인 정보
type PluginInfo struct {
	Manifest   *PluginManifest
	Status     PluginStatus
	Error      error
	Instance   Plugin
	LoadedAt   int64
	MigratedAt int64
}

// Plugin 플러그인 인터페이스 - 모든 플러그인이 구현해야 함
type Plugin interface {
	// Name 플러그인 이름 반환
	Name() string

	// Migrate DB 마이그레이션 실행 (테이블 생성/업데이트)
	Migrate(db *gorm.DB) error

	// Initialize 플러그인 초기화
	Initialize(ctx *PluginContext) error

	// RegisterRoutes 라우트 등록
	RegisterRoutes(router gin.IRouter)

	// Shutdown 플러그인 종료
	Shutdown() error
}

// PluginContext 플러그인에 전달되는 컨텍스트
type PluginContext struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Config map[string]interface{}
	Logger Logger
	Hooks  *HookManager
	Meta   *MetaRegistry
}

// Logger 플러그인용 로거 인터페이스
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// HealthCheckable 선택적 인터페이스 - 플러그인 상태 점검
type HealthCheckable interface {
	HealthCheck() error
}

// PluginHealth 플러그인 헬스 체크 결과
type PluginHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // healthy, unhealthy, disabled
	Message string `json:"message,omitempty"`
}

// PluginReloader 설정 변경 후 플러그인 재초기화
type PluginReloader interface {
	ReloadPlugin(name string) error
}

// HookAware 선택적 인터페이스 - Hook을 등록하고 싶은 플러그인이 구현
type HookAware interface {
	RegisterHooks(hm *HookManager)
}
