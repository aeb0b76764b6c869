package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/pluginstore/domain"
	"github.com/damoang/angple-published-by/internal/pluginstore/repository"
	pkglogger "github.com/damoang/angple-published-by/pkg/logger"
)

// PluginRegistry 설정을 주입받는 플러그인 매니저
type PluginRegistry interface {
	plugin.PluginReloader
	GetPlugin(name string) (*plugin.PluginInfo, bool)
	SetSettings(name string, settings map[string]interface{})
}

// SettingService 플러그인 설정 관리 서비스
// 우선순위: DB 저장값 > 설정 파일(base) > 매니페스트 기본값
type SettingService struct {
	settingRepo *repository.SettingRepository
	eventRepo   *repository.EventRepository
	registry    PluginRegistry

	mu   sync.RWMutex
	base map[string]map[string]interface{}
}

// NewSettingService 생성자
func NewSettingService(
	settingRepo *repository.SettingRepository,
	eventRepo *repository.EventRepository,
	registry PluginRegistry,
) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		eventRepo:   eventRepo,
		registry:    registry,
		base:        make(map[string]map[string]interface{}),
	}
}

// SettingWithSchema 설정값과 스키마 결합
type SettingWithSchema struct {
	Key          string      `json:"key"`
	Value        interface{} `json:"value"`
	Type         string      `json:"type"`
	Label        string      `json:"label"`
	DefaultValue interface{} `json:"default"`
	Stored       bool        `json:"stored"`
}

// SetBase 설정 파일에서 온 값 등록
func (s *SettingService) SetBase(pluginName string, settings map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base[pluginName] = settings
}

// Apply base 위에 DB 저장값을 덮어 매니저에 주입 (재초기화는 하지 않음)
func (s *SettingService) Apply(ctx context.Context, pluginName string) error {
	merged, err := s.effective(ctx, pluginName)
	if err != nil {
		return err
	}
	s.registry.SetSettings(pluginName, merged)
	return nil
}

// GetSettings 플러그인 설정 조회 (스키마 + 값 결합)
func (s *SettingService) GetSettings(ctx context.Context, pluginName string) ([]SettingWithSchema, error) {
	manifest, err := s.manifest(pluginName)
	if err != nil {
		return nil, err
	}

	stored, err := s.stored(ctx, pluginName)
	if err != nil {
		return nil, err
	}
	base := s.baseFor(pluginName)

	result := make([]SettingWithSchema, 0, len(manifest.Settings))
	for _, cfg := range manifest.Settings {
		item := SettingWithSchema{
			Key:          cfg.Key,
			Type:         cfg.Type,
			Label:        cfg.Label,
			DefaultValue: cfg.Default,
			Value:        cfg.Default,
		}
		if v, ok := base[cfg.Key]; ok {
			item.Value = v
		}
		if raw, ok := stored[cfg.Key]; ok {
			item.Value = ConvertSettingValue(cfg, raw)
			item.Stored = true
		}
		result = append(result, item)
	}
	return result, nil
}

// SaveSettings 플러그인 설정 저장 후 재초기화
func (s *SettingService) SaveSettings(ctx context.Context, pluginName string, settings map[string]string, actorID string) error {
	manifest, err := s.manifest(pluginName)
	if err != nil {
		return err
	}

	schemaMap := make(map[string]plugin.SettingConfig, len(manifest.Settings))
	for _, cfg := range manifest.Settings {
		schemaMap[cfg.Key] = cfg
	}

	// 전부 검증한 뒤 저장
	for key, value := range settings {
		schema, ok := schemaMap[key]
		if !ok {
			return fmt.Errorf("unknown setting key: %s", key)
		}
		if err := ValidateSetting(schema, value); err != nil {
			return err
		}
	}

	for key, value := range settings {
		v := value
		setting := &domain.PluginSetting{
			PluginName:   pluginName,
			SettingKey:   key,
			SettingValue: &v,
		}
		if err := s.settingRepo.Set(ctx, setting); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	s.RecordEvent(ctx, pluginName, domain.EventConfigChanged, actorID, settings)
	return s.reload(ctx, pluginName)
}

// ResetSettings 저장된 설정 삭제 후 재초기화
func (s *SettingService) ResetSettings(ctx context.Context, pluginName string, actorID string) error {
	if _, err := s.manifest(pluginName); err != nil {
		return err
	}
	if err := s.settingRepo.DeleteByPlugin(ctx, pluginName); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	s.RecordEvent(ctx, pluginName, domain.EventConfigChanged, actorID, map[string]string{"reset": "true"})
	return s.reload(ctx, pluginName)
}

// RecordEvent 이벤트 로그 (실패는 경고만)
func (s *SettingService) RecordEvent(ctx context.Context, pluginName, eventType, actorID string, details interface{}) {
	event := &domain.PluginEvent{
		PluginName: pluginName,
		EventType:  eventType,
	}
	if actorID != "" {
		event.ActorID = &actorID
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			str := string(raw)
			event.Details = &str
		}
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		pkglogger.Warn("plugin event %s/%s not recorded: %v", pluginName, eventType, err)
	}
}

// Events 플러그인 이벤트 조회 (최신순)
func (s *SettingService) Events(ctx context.Context, pluginName string, limit int) ([]domain.PluginEvent, error) {
	return s.eventRepo.ListByPlugin(ctx, pluginName, limit)
}

// ExportSettings 단일 플러그인 설정 내보내기 (저장값만)
func (s *SettingService) ExportSettings(ctx context.Context, pluginName string) (map[string]string, error) {
	if _, err := s.manifest(pluginName); err != nil {
		return nil, err
	}
	return s.stored(ctx, pluginName)
}

func (s *SettingService) reload(ctx context.Context, pluginName string) error {
	if err := s.Apply(ctx, pluginName); err != nil {
		return err
	}
	if err := s.registry.ReloadPlugin(pluginName); err != nil {
		// 설정 자체는 이미 저장됨
		s.RecordEvent(ctx, pluginName, domain.EventError, "", map[string]string{"reload": err.Error()})
		return fmt.Errorf("settings saved but reload failed: %w", err)
	}
	return nil
}

func (s *SettingService) manifest(pluginName string) (*plugin.PluginManifest, error) {
	info, ok := s.registry.GetPlugin(pluginName)
	if !ok || info.Manifest == nil {
		return nil, fmt.Errorf("plugin %s not found", pluginName)
	}
	return info.Manifest, nil
}

func (s *SettingService) stored(ctx context.Context, pluginName string) (map[string]string, error) {
	saved, err := s.settingRepo.GetAll(ctx, pluginName)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	out := make(map[string]string, len(saved))
	for _, setting := range saved {
		if setting.SettingValue != nil {
			out[setting.SettingKey] = *setting.SettingValue
		}
	}
	return out, nil
}

func (s *SettingService) baseFor(pluginName string) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.base[pluginName]))
	for k, v := range s.base[pluginName] {
		out[k] = v
	}
	return out
}

// effective base + DB 저장값 (타입 변환 포함)
func (s *SettingService) effective(ctx context.Context, pluginName string) (map[string]interface{}, error) {
	merged := s.baseFor(pluginName)

	stored, err := s.stored(ctx, pluginName)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return merged, nil
	}

	schemaMap := make(map[string]plugin.SettingConfig)
	if manifest, err := s.manifest(pluginName); err == nil {
		for _, cfg := range manifest.Settings {
			schemaMap[cfg.Key] = cfg
		}
	}
	for k, raw := range stored {
		merged[k] = ConvertSettingValue(schemaMap[k], raw)
	}
	return merged, nil
}
