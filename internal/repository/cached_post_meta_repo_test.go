package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache in-memory cache.Service for tests
type memoryCache struct {
	data map[string][]byte
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return cache.ErrUnavailable
	}
	m.hits++
	return json.Unmarshal(b, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memoryCache) IsAvailable() bool            { return true }
func (m *memoryCache) Ping(_ context.Context) error { return nil }

func TestCachedPostMetaRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mc := newMemoryCache()
	repo := NewCachedPostMetaRepository(NewPostMetaRepository(setupDB(t)), mc, nil)

	require.NoError(t, repo.Set(ctx, 5, "published-by", "publisher_id", 42))

	var id uint64
	require.NoError(t, repo.Get(ctx, 5, "published-by", "publisher_id", &id))
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, 0, mc.hits)

	ok, _ := mc.Exists(ctx, cache.PostMetaKey(5, "published-by", "publisher_id"))
	assert.True(t, ok, "value cached after first read")

	require.NoError(t, repo.Get(ctx, 5, "published-by", "publisher_id", &id))
	assert.Equal(t, 1, mc.hits)
}

func TestCachedPostMetaRepository_InvalidateOnWrite(t *testing.T) {
	ctx := context.Background()
	mc := newMemoryCache()
	repo := NewCachedPostMetaRepository(NewPostMetaRepository(setupDB(t)), mc, nil)

	var id uint64
	require.NoError(t, repo.Set(ctx, 5, "published-by", "publisher_id", 1))
	require.NoError(t, repo.Get(ctx, 5, "published-by", "publisher_id", &id))

	require.NoError(t, repo.Set(ctx, 5, "published-by", "publisher_id", 2))
	require.NoError(t, repo.Get(ctx, 5, "published-by", "publisher_id", &id))
	assert.Equal(t, uint64(2), id)

	require.NoError(t, repo.Delete(ctx, 5, "published-by", "publisher_id"))
	err := repo.Get(ctx, 5, "published-by", "publisher_id", &id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCachedPostMetaRepository_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	repo := NewCachedPostMetaRepository(NewPostMetaRepository(setupDB(t)), cache.NewService(nil), nil)

	require.NoError(t, repo.Set(ctx, 9, "core", "_edit_last", 4))

	var id uint64
	require.NoError(t, repo.Get(ctx, 9, "core", "_edit_last", &id))
	assert.Equal(t, uint64(4), id)

	metas, err := repo.ListByPost(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}
