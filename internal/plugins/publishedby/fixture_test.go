package publishedby

import (
	"context"
	"fmt"
	"testing"

	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/repository"
	"github.com/damoang/angple-published-by/internal/service"
	"github.com/damoang/angple-published-by/pkg/auth"
	"github.com/damoang/angple-published-by/pkg/i18n"
	pkglogger "github.com/damoang/angple-published-by/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	t         *testing.T
	manager   *plugin.Manager
	plugin    *Plugin
	router    *gin.Engine
	posts     *service.PostService
	postRepo  repository.PostRepository
	users     repository.UserRepository
	meta      repository.PostMetaRepository
	revisions repository.RevisionRepository
	store     *Store
}

func newFixture(t *testing.T, settings map[string]interface{}) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Post{}, &domain.ContentRevision{}, &domain.PostMeta{}))

	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := plugin.NewManager(db, nil, pkglogger.NewComponent("test"))
	m.SetRouter(router)
	if settings != nil {
		m.SetSettings(Name, settings)
	}
	p := New()
	require.NoError(t, m.RegisterBuiltIn(Name, p, Manifest))
	require.NoError(t, m.Enable(Name))

	f := &fixture{
		t:         t,
		manager:   m,
		plugin:    p,
		router:    router,
		postRepo:  repository.NewPostRepository(db),
		users:     repository.NewUserRepository(db),
		meta:      repository.NewPostMetaRepository(db),
		revisions: repository.NewRevisionRepository(db),
	}
	f.store = NewStore(f.meta)
	f.posts = service.NewPostService(f.postRepo, f.revisions, f.meta, f.users, m.Hooks(), m.Meta())
	return f
}

func (f *fixture) user(name string) uint64 {
	f.t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", Nickname: name}
	require.NoError(f.t, f.users.Create(context.Background(), u))
	return u.ID
}

// rawPost 훅을 거치지 않고 저장
func (f *fixture) rawPost(author uint64, status string) *domain.Post {
	f.t.Helper()
	p := &domain.Post{PostType: domain.PostTypePost, UserID: author, Title: fmt.Sprintf("by %d", author), Status: status}
	require.NoError(f.t, f.postRepo.Create(context.Background(), p))
	return p
}

func (f *fixture) record(postID uint64) uint64 {
	f.t.Helper()
	id, err := f.store.PublisherID(context.Background(), postID)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) resolve(postID uint64) Result {
	f.t.Helper()
	res, err := f.plugin.Resolver().Resolve(context.Background(), postID)
	require.NoError(f.t, err)
	return res
}

// as 인증된 사용자 + 영어 로케일 요청 컨텍스트
func as(userID uint64) context.Context {
	ctx := i18n.WithLocale(context.Background(), i18n.LocaleEn)
	if userID == 0 {
		return ctx
	}
	return auth.WithActor(ctx, auth.Actor{ID: userID})
}

func strPtr(s string) *string { return &s }
