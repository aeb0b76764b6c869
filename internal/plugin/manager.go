package plugin

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Manager 플러그인 매니저 - 플러그인 라이프사이클 관리
type Manager struct {
	hookManager *HookManager
	meta        *MetaRegistry
	db          *gorm.DB
	redis       *redis.Client
	router      gin.IRouter
	plugins     map[string]*PluginInfo
	settings    map[string]map[string]interface{}
	// Gin 라우트는 한번 등록하면 제거 불가
	routesRegistered map[string]bool
	mu               sync.RWMutex
	// Enable/Disable/Reload 직렬화
	lifecycle sync.Mutex
	logger    Logger
}

// NewManager 새 매니저 생성
func NewManager(db *gorm.DB, redisClient *redis.Client, logger Logger) *Manager {
	return &Manager{
		hookManager:      NewHookManager(logger),
		meta:             NewMetaRegistry(),
		db:               db,
		redis:            redisClient,
		plugins:          make(map[string]*PluginInfo),
		settings:         make(map[string]map[string]interface{}),
		routesRegistered: make(map[string]bool),
		logger:           logger,
	}
}

// Hooks Hook 매니저 반환
func (m *Manager) Hooks() *HookManager {
	return m.hookManager
}

// Meta meta 레지스트리 반환
func (m *Manager) Meta() *MetaRegistry {
	return m.meta
}

// SetRouter 플러그인 라우트 기본 라우터 설정 (main.go에서 호출)
func (m *Manager) SetRouter(router gin.IRouter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.router = router
}

// SetSettings 플러그인 설정 주입 (manifest 기본값 위에 덮어씀)
func (m *Manager) SetSettings(name string, settings map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[name] = settings
}

// RegisterBuiltIn 내장 플러그인 등록
func (m *Manager) RegisterBuiltIn(name string, p Plugin, manifest *PluginManifest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}

	m.plugins[name] = &PluginInfo{
		Manifest: manifest,
		Status:   StatusDisabled,
		Instance: p,
		LoadedAt: time.Now().Unix(),
	}
	m.logger.Info("Registered built-in plugin: %s v%s", name, manifest.Version)
	return nil
}

// RegisterFactories init()에서 등록된 모든 팩토리를 내장 플러그인으로 등록
func (m *Manager) RegisterFactories() error {
	regs := GetRegisteredFactories()
	names := make([]string, 0, len(regs))
	for name := range regs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		reg := regs[name]
		if err := m.RegisterBuiltIn(name, reg.Factory(), reg.Manifest); err != nil {
			return err
		}
	}
	return nil
}

// Enable 플러그인 활성화
func (m *Manager) Enable(name string) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	info, exists := m.GetPlugin(name)
	if !exists {
		return fmt.Errorf("plugin %s not found", name)
	}

	if m.statusOf(info) == StatusEnabled {
		return nil // 이미 활성화됨
	}

	// 1) 마이그레이션 먼저
	if m.db != nil {
		if err := info.Instance.Migrate(m.db); err != nil {
			m.setStatus(info, StatusError, err)
			return fmt.Errorf("failed to migrate plugin %s: %w", name, err)
		}
		m.mu.Lock()
		info.MigratedAt = time.Now().Unix()
		m.mu.Unlock()
	}

	// 2) 초기화 - 설정 주입
	if err := info.Instance.Initialize(m.pluginContext(name, info.Manifest)); err != nil {
		m.setStatus(info, StatusError, err)
		return fmt.Errorf("failed to initialize plugin %s: %w", name, err)
	}

	// 3) Hook 등록 (HookAware 구현 시)
	if ha, ok := info.Instance.(HookAware); ok {
		ha.RegisterHooks(m.hookManager)
		m.logger.Info("Registered hooks for plugin: %s", name)
	}

	// 4) 라우트 등록 (최초 1회)
	m.registerRoutes(name, info.Instance)

	m.setStatus(info, StatusEnabled, nil)
	m.logger.Info("Enabled plugin: %s", name)
	return nil
}

// Disable 플러그인 비활성화
func (m *Manager) Disable(name string) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	info, exists := m.GetPlugin(name)
	if !exists {
		return fmt.Errorf("plugin %s not found", name)
	}

	if m.statusOf(info) != StatusEnabled {
		return nil // 이미 비활성화됨
	}

	// 상태를 먼저 내려서 라우트 가드가 바로 404를 반환하게 함
	m.setStatus(info, StatusDisabled, nil)

	if err := info.Instance.Shutdown(); err != nil {
		m.logger.Warn("Plugin %s shutdown error: %v", name, err)
	}

	m.hookManager.Unregister(name)
	m.meta.Unregister(name)

	m.logger.Info("Disabled plugin: %s", name)
	return nil
}

// ReloadPlugin 활성화된 플러그인을 현재 설정으로 재초기화 (비활성 상태면 no-op).
// 비활성화를 거치지 않으므로 Hook과 라우트가 빠지는 구간이 없고,
// 재초기화에 실패하면 기존 인스턴스 상태가 그대로 유지된다.
func (m *Manager) ReloadPlugin(name string) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	info, exists := m.GetPlugin(name)
	if !exists || m.statusOf(info) != StatusEnabled {
		return nil
	}

	if err := info.Instance.Initialize(m.pluginContext(name, info.Manifest)); err != nil {
		m.logger.Error("Plugin %s reload failed: %v", name, err)
		return fmt.Errorf("failed to reload plugin %s: %w", name, err)
	}

	if ha, ok := info.Instance.(HookAware); ok {
		m.hookManager.Replace(name, ha.RegisterHooks)
	}

	m.logger.Info("Reloaded plugin: %s", name)
	return nil
}

// IsEnabled 활성화 여부
func (m *Manager) IsEnabled(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.plugins[name]
	return ok && info.Status == StatusEnabled
}

// GetPlugin 플러그인 정보 조회
func (m *Manager) GetPlugin(name string) (*PluginInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, exists := m.plugins[name]
	return info, exists
}

// CheckHealth 단일 플러그인 헬스 체크
func (m *Manager) CheckHealth(name string) PluginHealth {
	m.mu.RLock()
	info, exists := m.plugins[name]
	m.mu.RUnlock()

	if !exists {
		return PluginHealth{Name: name, Status: "unknown", Message: "plugin not found"}
	}

	if m.statusOf(info) != StatusEnabled {
		return PluginHealth{Name: name, Status: "disabled"}
	}

	if hc, ok := info.Instance.(HealthCheckable); ok {
		if err := hc.HealthCheck(); err != nil {
			return PluginHealth{Name: name, Status: "unhealthy", Message: err.Error()}
		}
	}

	return PluginHealth{Name: name, Status: "healthy"}
}

// CheckAllHealth 모든 플러그인 헬스 체크 (이름순)
func (m *Manager) CheckAllHealth() []PluginHealth {
	m.mu.RLock()
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)

	results := make([]PluginHealth, 0, len(names))
	for _, name := range names {
		results = append(results, m.CheckHealth(name))
	}
	return results
}

// Shutdown 모든 플러그인 종료
func (m *Manager) Shutdown() error {
	m.mu.RLock()
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	m.mu.RUnlock()

	for _, name := range names {
		if err := m.Disable(name); err != nil {
			m.logger.Warn("Plugin %s disable error: %v", name, err)
		}
	}

	m.logger.Info("All plugins shutdown complete")
	return nil
}

func (m *Manager) configFor(name string, manifest *PluginManifest) map[string]interface{} {
	cfg := make(map[string]interface{})
	if manifest != nil {
		for k, v := range manifest.Defaults() {
			cfg[k] = v
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.settings[name] {
		cfg[k] = v
	}
	return cfg
}

func (m *Manager) pluginContext(name string, manifest *PluginManifest) *PluginContext {
	return &PluginContext{
		DB:     m.db,
		Redis:  m.redis,
		Config: m.configFor(name, manifest),
		Logger: m.logger,
		Hooks:  m.hookManager,
		Meta:   m.meta,
	}
}

func (m *Manager) registerRoutes(name string, p Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.router == nil || m.routesRegistered[name] {
		return
	}
	// 경로: /api/plugins/{plugin-name}
	// Gin 라우트는 제거할 수 없으므로 비활성 상태에서는 가드가 404 처리
	p.RegisterRoutes(m.router.Group("/api/plugins/"+name, m.requireEnabled(name)))
	m.routesRegistered[name] = true
}

// requireEnabled 비활성 플러그인 라우트 차단
func (m *Manager) requireEnabled(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.IsEnabled(name) {
			common.V2ErrorResponse(c, http.StatusNotFound, fmt.Sprintf("plugin %s is not enabled", name), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *Manager) statusOf(info *PluginInfo) PluginStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return info.Status
}

func (m *Manager) setStatus(info *PluginInfo, status PluginStatus, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info.Status = status
	info.Error = err
}
