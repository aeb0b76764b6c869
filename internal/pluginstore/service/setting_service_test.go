package service

import (
	"context"
	"errors"
	"testing"

	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/pluginstore/domain"
	"github.com/damoang/angple-published-by/internal/pluginstore/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeRegistry 플러그인 매니저 모의 객체
type fakeRegistry struct {
	manifests map[string]*plugin.PluginManifest
	settings  map[string]map[string]interface{}
	reloaded  []string
	reloadErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		manifests: map[string]*plugin.PluginManifest{
			"test-plugin": {
				Name: "test-plugin",
				Settings: []plugin.SettingConfig{
					{Key: "statuses", Type: SettingTypePostStatuses, Default: "private,publish"},
					{Key: "skip", Type: SettingTypeBoolean, Default: false},
					{Key: "url", Type: SettingTypeString, Default: "/admin"},
				},
			},
		},
		settings: make(map[string]map[string]interface{}),
	}
}

func (r *fakeRegistry) GetPlugin(name string) (*plugin.PluginInfo, bool) {
	m, ok := r.manifests[name]
	if !ok {
		return nil, false
	}
	return &plugin.PluginInfo{Manifest: m}, true
}

func (r *fakeRegistry) SetSettings(name string, settings map[string]interface{}) {
	r.settings[name] = settings
}

func (r *fakeRegistry) ReloadPlugin(name string) error {
	r.reloaded = append(r.reloaded, name)
	return r.reloadErr
}

func setupSettingService(t *testing.T) (*SettingService, *fakeRegistry) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.PluginSetting{}, &domain.PluginEvent{}))

	reg := newFakeRegistry()
	svc := NewSettingService(repository.NewSettingRepository(db), repository.NewEventRepository(db), reg)
	return svc, reg
}

func TestSaveSettings_OverridesBaseAndReloads(t *testing.T) {
	svc, reg := setupSettingService(t)
	ctx := context.Background()

	svc.SetBase("test-plugin", map[string]interface{}{"statuses": []string{"publish"}, "url": "/wp-admin"})
	require.NoError(t, svc.Apply(ctx, "test-plugin"))
	assert.Equal(t, []string{"publish"}, reg.settings["test-plugin"]["statuses"])

	err := svc.SaveSettings(ctx, "test-plugin", map[string]string{"statuses": "private,publish,future", "skip": "true"}, "1")
	require.NoError(t, err)

	assert.Equal(t, []string{"test-plugin"}, reg.reloaded)
	got := reg.settings["test-plugin"]
	assert.Equal(t, []string{"private", "publish", "future"}, got["statuses"])
	assert.Equal(t, true, got["skip"])
	assert.Equal(t, "/wp-admin", got["url"], "base value kept when not stored")

	events, err := svc.Events(ctx, "test-plugin", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventConfigChanged, events[0].EventType)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, "1", *events[0].ActorID)
}

func TestSaveSettings_ValidatesBeforeWriting(t *testing.T) {
	svc, reg := setupSettingService(t)
	ctx := context.Background()

	err := svc.SaveSettings(ctx, "test-plugin", map[string]string{"skip": "true", "statuses": "published"}, "1")
	assert.Error(t, err)

	err = svc.SaveSettings(ctx, "test-plugin", map[string]string{"color": "red"}, "1")
	assert.ErrorContains(t, err, "unknown setting key")

	err = svc.SaveSettings(ctx, "missing", map[string]string{"skip": "true"}, "1")
	assert.ErrorContains(t, err, "not found")

	stored, err := svc.ExportSettings(ctx, "test-plugin")
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, reg.reloaded)
}

func TestGetSettings_Precedence(t *testing.T) {
	svc, _ := setupSettingService(t)
	ctx := context.Background()

	svc.SetBase("test-plugin", map[string]interface{}{"url": "/wp-admin"})
	require.NoError(t, svc.SaveSettings(ctx, "test-plugin", map[string]string{"skip": "true"}, ""))

	settings, err := svc.GetSettings(ctx, "test-plugin")
	require.NoError(t, err)
	require.Len(t, settings, 3)

	byKey := map[string]SettingWithSchema{}
	for _, s := range settings {
		byKey[s.Key] = s
	}
	assert.Equal(t, "private,publish", byKey["statuses"].Value)
	assert.False(t, byKey["statuses"].Stored)
	assert.Equal(t, true, byKey["skip"].Value)
	assert.True(t, byKey["skip"].Stored)
	assert.Equal(t, "/wp-admin", byKey["url"].Value)
}

func TestResetSettings(t *testing.T) {
	svc, reg := setupSettingService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveSettings(ctx, "test-plugin", map[string]string{"skip": "true"}, "1"))
	require.NoError(t, svc.ResetSettings(ctx, "test-plugin", "1"))

	_, stored := reg.settings["test-plugin"]["skip"]
	assert.False(t, stored)
	assert.Len(t, reg.reloaded, 2)
}

func TestSaveSettings_ReloadFailure(t *testing.T) {
	svc, reg := setupSettingService(t)
	reg.reloadErr = errors.New("boom")
	ctx := context.Background()

	err := svc.SaveSettings(ctx, "test-plugin", map[string]string{"skip": "true"}, "1")
	assert.ErrorContains(t, err, "reload failed")

	// 값은 저장됨
	stored, err := svc.ExportSettings(ctx, "test-plugin")
	require.NoError(t, err)
	assert.Equal(t, "true", stored["skip"])

	events, err := svc.Events(ctx, "test-plugin", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventError, events[0].EventType)
}
