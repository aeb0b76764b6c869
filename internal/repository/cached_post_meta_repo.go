package repository

import (
	"context"
	"time"

	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/pkg/cache"
	"github.com/damoang/angple-published-by/pkg/logger"
)

// MetaCacheConfig 메타 캐시 설정
type MetaCacheConfig struct {
	TTL time.Duration // 기본 10분
}

// DefaultMetaCacheConfig 기본 캐시 설정
func DefaultMetaCacheConfig() *MetaCacheConfig {
	return &MetaCacheConfig{TTL: cache.TTLPostMeta}
}

// CachedPostMetaRepository 캐시가 적용된 메타 저장소
// 목록 조회(ListByPost)는 캐시하지 않음
type CachedPostMetaRepository struct {
	repo   PostMetaRepository
	cache  cache.Service
	config *MetaCacheConfig
}

// NewCachedPostMetaRepository 캐시 적용 메타 저장소 생성
func NewCachedPostMetaRepository(repo PostMetaRepository, cacheService cache.Service, config *MetaCacheConfig) PostMetaRepository {
	if config == nil {
		config = DefaultMetaCacheConfig()
	}
	return &CachedPostMetaRepository{
		repo:   repo,
		cache:  cacheService,
		config: config,
	}
}

// GetRaw 캐시 조회 후 미스면 DB 조회
func (r *CachedPostMetaRepository) GetRaw(ctx context.Context, postID uint64, namespace, key string) (string, error) {
	cacheKey := cache.PostMetaKey(postID, namespace, key)

	var raw string
	if err := r.cache.Get(ctx, cacheKey, &raw); err == nil {
		return raw, nil
	} else if !cache.IsMiss(err) {
		logger.Warn("post meta cache read failed key=%s: %v", cacheKey, err)
	}

	raw, err := r.repo.GetRaw(ctx, postID, namespace, key)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, cacheKey, raw, r.config.TTL); err != nil {
		logger.Warn("post meta cache write failed key=%s: %v", cacheKey, err)
	}
	return raw, nil
}

func (r *CachedPostMetaRepository) Get(ctx context.Context, postID uint64, namespace, key string, dest interface{}) error {
	raw, err := r.GetRaw(ctx, postID, namespace, key)
	if err != nil {
		return err
	}
	return decodeMeta(raw, dest)
}

// Set 저장 후 캐시 무효화
func (r *CachedPostMetaRepository) Set(ctx context.Context, postID uint64, namespace, key string, value interface{}) error {
	if err := r.repo.Set(ctx, postID, namespace, key, value); err != nil {
		return err
	}
	r.invalidate(ctx, postID, namespace, key)
	return nil
}

// Delete 삭제 후 캐시 무효화
func (r *CachedPostMetaRepository) Delete(ctx context.Context, postID uint64, namespace, key string) error {
	if err := r.repo.Delete(ctx, postID, namespace, key); err != nil {
		return err
	}
	r.invalidate(ctx, postID, namespace, key)
	return nil
}

func (r *CachedPostMetaRepository) ListByPost(ctx context.Context, postID uint64) ([]*domain.PostMeta, error) {
	return r.repo.ListByPost(ctx, postID)
}

func (r *CachedPostMetaRepository) invalidate(ctx context.Context, postID uint64, namespace, key string) {
	cacheKey := cache.PostMetaKey(postID, namespace, key)
	if err := r.cache.Delete(ctx, cacheKey); err != nil {
		logger.Warn("post meta cache invalidate failed key=%s: %v", cacheKey, err)
	}
}
