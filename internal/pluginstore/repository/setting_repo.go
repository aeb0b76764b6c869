package repository

import (
	"context"

	"github.com/damoang/angple-published-by/internal/pluginstore/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository 플러그인 설정 저장소
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 생성자
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetAll 플러그인의 전체 설정 조회
func (r *SettingRepository) GetAll(ctx context.Context, pluginName string) ([]domain.PluginSetting, error) {
	var list []domain.PluginSetting
	err := r.db.WithContext(ctx).Where("plugin_name = ?", pluginName).Order("setting_key").Find(&list).Error
	return list, err
}

// Set 설정 저장 (upsert)
func (r *SettingRepository) Set(ctx context.Context, s *domain.PluginSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plugin_name"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(s).Error
}

// DeleteByPlugin 플러그인의 모든 설정 삭제
func (r *SettingRepository) DeleteByPlugin(ctx context.Context, pluginName string) error {
	return r.db.WithContext(ctx).Where("plugin_name = ?", pluginName).Delete(&domain.PluginSetting{}).Error
}
