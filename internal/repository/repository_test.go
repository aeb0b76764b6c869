package repository

import (
	"context"
	"testing"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Post{}, &domain.ContentRevision{}, &domain.PostMeta{}))
	return db
}

func TestPostRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(setupDB(t))

	post := &domain.Post{PostType: domain.PostTypePost, UserID: 3, Title: "hello", Status: domain.StatusDraft}
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, uint64(3), got.UserID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, common.ErrPostNotFound)
}

func TestPostRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(setupDB(t))

	seed := []*domain.Post{
		{PostType: domain.PostTypePost, Status: domain.StatusPublish, Title: "a"},
		{PostType: domain.PostTypePost, Status: domain.StatusDraft, Title: "b"},
		{PostType: domain.PostTypePost, Status: domain.StatusTrash, Title: "c"},
		{PostType: domain.PostTypePage, Status: domain.StatusPublish, Title: "d"},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, total, err := repo.List(ctx, PostFilter{PostType: domain.PostTypePost})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "trash is excluded without a status filter")
	assert.Equal(t, "b", posts[0].Title, "newest first")

	posts, total, err = repo.List(ctx, PostFilter{PostType: domain.PostTypePost, Status: domain.StatusTrash})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "c", posts[0].Title)

	_, total, err = repo.List(ctx, PostFilter{PostType: domain.PostTypePage})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPostRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(setupDB(t))

	post := &domain.Post{PostType: domain.PostTypePost, Status: domain.StatusDraft}
	require.NoError(t, repo.Create(ctx, post))

	post.Status = domain.StatusPublish
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublish, got.Status)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupDB(t))

	alice := &domain.User{Username: "alice", Email: "alice@example.com", Nickname: "Alice"}
	bob := &domain.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	users, err := repo.FindByIDs(ctx, []uint64{alice.ID, bob.ID, 404})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "bob", users[bob.ID].DisplayName())

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRevisionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRevisionRepository(setupDB(t))

	_, err := repo.Latest(ctx, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	v, err := repo.GetNextVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	require.NoError(t, repo.Create(ctx, &domain.ContentRevision{PostID: 1, Version: 1, EditedBy: 10}))
	require.NoError(t, repo.Create(ctx, &domain.ContentRevision{PostID: 1, Version: 2, EditedBy: 20}))
	require.NoError(t, repo.Create(ctx, &domain.ContentRevision{PostID: 2, Version: 1, EditedBy: 30}))

	latest, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), latest.EditedBy)

	revs, err := repo.FindByPostID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, uint(2), revs[0].Version)

	v, err = repo.GetNextVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(3), v)
}

func TestPostMetaRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostMetaRepository(setupDB(t))

	var id uint64
	err := repo.Get(ctx, 1, "published-by", "publisher_id", &id)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.Set(ctx, 1, "published-by", "publisher_id", 7))
	require.NoError(t, repo.Get(ctx, 1, "published-by", "publisher_id", &id))
	assert.Equal(t, uint64(7), id)

	// overwrite keeps a single row
	require.NoError(t, repo.Set(ctx, 1, "published-by", "publisher_id", 8))
	require.NoError(t, repo.Get(ctx, 1, "published-by", "publisher_id", &id))
	assert.Equal(t, uint64(8), id)

	require.NoError(t, repo.Set(ctx, 1, "core", "_edit_last", 3))
	metas, err := repo.ListByPost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "core", metas[0].Namespace)

	raw, err := repo.GetRaw(ctx, 1, "published-by", "publisher_id")
	require.NoError(t, err)
	assert.Equal(t, "8", raw)

	require.NoError(t, repo.Delete(ctx, 1, "published-by", "publisher_id"))
	_, err = repo.GetRaw(ctx, 1, "published-by", "publisher_id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
