package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"gorm.io/gorm"
)

// PostMetaRepository 게시글 메타 저장소 (namespace + meta_key 단위, 값은 JSON)
type PostMetaRepository interface {
	// GetRaw 저장된 JSON 원문, 없으면 common.ErrNotFound
	GetRaw(ctx context.Context, postID uint64, namespace, key string) (string, error)
	// Get JSON 값을 dest 로 디코딩
	Get(ctx context.Context, postID uint64, namespace, key string, dest interface{}) error
	// Set 값을 JSON 으로 저장 (있으면 덮어씀)
	Set(ctx context.Context, postID uint64, namespace, key string, value interface{}) error
	Delete(ctx context.Context, postID uint64, namespace, key string) error
	ListByPost(ctx context.Context, postID uint64) ([]*domain.PostMeta, error)
}

type postMetaRepository struct {
	db *gorm.DB
}

// NewPostMetaRepository creates a new PostMetaRepository
func NewPostMetaRepository(db *gorm.DB) PostMetaRepository {
	return &postMetaRepository{db: db}
}

func (r *postMetaRepository) GetRaw(ctx context.Context, postID uint64, namespace, key string) (string, error) {
	var meta domain.PostMeta
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND namespace = ? AND meta_key = ?", postID, namespace, key).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if meta.MetaValue == nil {
		return "", common.ErrNotFound
	}
	return *meta.MetaValue, nil
}

func (r *postMetaRepository) Get(ctx context.Context, postID uint64, namespace, key string, dest interface{}) error {
	raw, err := r.GetRaw(ctx, postID, namespace, key)
	if err != nil {
		return err
	}
	return decodeMeta(raw, dest)
}

func (r *postMetaRepository) Set(ctx context.Context, postID uint64, namespace, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode meta %s/%s: %w", namespace, key, err)
	}
	raw := string(data)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meta domain.PostMeta
		err := tx.Where("post_id = ? AND namespace = ? AND meta_key = ?", postID, namespace, key).
			First(&meta).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&domain.PostMeta{
				PostID:    postID,
				Namespace: namespace,
				MetaKey:   key,
				MetaValue: &raw,
			}).Error
		case err != nil:
			return err
		}
		return tx.Model(&meta).Update("meta_value", raw).Error
	})
}

func (r *postMetaRepository) Delete(ctx context.Context, postID uint64, namespace, key string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND namespace = ? AND meta_key = ?", postID, namespace, key).
		Delete(&domain.PostMeta{}).Error
}

func (r *postMetaRepository) ListByPost(ctx context.Context, postID uint64) ([]*domain.PostMeta, error) {
	var metas []*domain.PostMeta
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("namespace, meta_key").Find(&metas).Error
	return metas, err
}

func decodeMeta(raw string, dest interface{}) error {
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode meta: %w", err)
	}
	return nil
}
