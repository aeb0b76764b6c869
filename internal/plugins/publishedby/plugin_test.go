package publishedby

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryRegistered(t *testing.T) {
	assert.True(t, plugin.IsRegistered(Name))
	reg := plugin.GetRegisteredFactories()[Name]
	assert.Equal(t, Manifest, reg.Manifest)
	assert.Equal(t, Name, reg.Factory().Name())
}

func TestMetaDefinition(t *testing.T) {
	f := newFixture(t, nil)

	def, ok := f.manager.Meta().Lookup(MetaKey)
	require.True(t, ok)
	assert.Equal(t, MetaNamespace, def.Namespace)
	assert.Equal(t, plugin.MetaTypeInteger, def.Type)
	assert.True(t, def.Single)
	assert.True(t, def.ShowInREST)
	assert.False(t, def.CanWrite(context.Background(), 1))

	clean, err := def.Clean("-12")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), clean)
}

func TestRESTMetaExposesRecord(t *testing.T) {
	f := newFixture(t, nil)
	a := f.user("alice")

	post, err := f.posts.Create(as(a), &service.CreatePostRequest{Title: "t", Status: domain.StatusPublish})
	require.NoError(t, err)

	got, err := f.posts.GetWithMeta(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got.Meta[MetaKey])

	draft, err := f.posts.Create(as(a), &service.CreatePostRequest{Title: "d"})
	require.NoError(t, err)
	got, err = f.posts.GetWithMeta(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Meta[MetaKey])

	_, err = f.posts.Update(as(a), post.ID, &service.UpdatePostRequest{Meta: map[string]interface{}{MetaKey: 99}})
	assert.ErrorIs(t, err, common.ErrMetaNotWritable)
	assert.Equal(t, a, f.record(post.ID))
}

func TestHooks_AdminListing(t *testing.T) {
	f := newFixture(t, nil)
	hooks := f.manager.Hooks()
	a := f.user("alice")
	post := f.rawPost(a, domain.StatusPublish)

	out := hooks.Apply(as(0), plugin.HookAdminListColumns, map[string]interface{}{
		"post_type":   domain.PostTypePage,
		"post_status": "",
		"columns":     []plugin.Column{{Name: "title", Label: "Title"}},
	})
	cols := out["columns"].([]plugin.Column)
	require.Len(t, cols, 2)
	assert.Equal(t, ColumnName, cols[1].Name)

	out = hooks.Apply(as(a), plugin.HookAdminListColumnValue, map[string]interface{}{
		"post_type": domain.PostTypePost,
		"column":    ColumnName,
		"post_id":   post.ID,
		"html":      "",
	})
	assert.Equal(t, `<span class="published-by-guess">you</span>`, out["html"])

	out = hooks.Apply(as(a), plugin.HookAdminListColumnValue, map[string]interface{}{
		"post_type": domain.PostTypePost,
		"column":    "title",
		"post_id":   post.ID,
		"html":      "keep",
	})
	assert.Equal(t, "keep", out["html"])

	out = hooks.Apply(as(0), plugin.HookAdminHead, map[string]interface{}{
		"screen":      plugin.ScreenList,
		"post_type":   domain.PostTypePost,
		"post_status": domain.StatusDraft,
		"styles":      "",
	})
	assert.Empty(t, out["styles"])

	out = hooks.Apply(as(0), plugin.HookAdminHead, map[string]interface{}{
		"screen":      plugin.ScreenEdit,
		"post_status": domain.StatusDraft,
		"styles":      "",
	})
	assert.Contains(t, out["styles"], "published-by-guess")
}

func TestHooks_Submitbox(t *testing.T) {
	f := newFixture(t, nil)
	a := f.user("alice")
	post := f.rawPost(a, domain.StatusPublish)

	out := f.manager.Hooks().Apply(as(a), plugin.HookAdminPostSubmitbox, map[string]interface{}{
		"post": post,
		"html": "<div>status</div>",
	})
	assert.Equal(t,
		`<div>status</div><div class="misc-pub-section misc-pub-published-by">Published by: <b class="published-by-guess">you</b></div>`,
		out["html"])
}

func TestDisableRemovesHooksAndMeta(t *testing.T) {
	f := newFixture(t, nil)
	a := f.user("alice")
	require.NoError(t, f.manager.Disable(Name))

	assert.False(t, f.manager.Meta().Exists(MetaKey))
	assert.False(t, f.manager.Hooks().Has(plugin.HookPostTransitionStatus))

	post, err := f.posts.Create(as(a), &service.CreatePostRequest{Title: "t", Status: domain.StatusPublish})
	require.NoError(t, err)
	assert.Zero(t, f.record(post.ID))
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, nil)
	assert.NoError(t, f.plugin.HealthCheck())
	assert.Error(t, New().HealthCheck())

	health := f.manager.CheckHealth(Name)
	assert.Equal(t, "healthy", health.Status)
}

func TestRoute_GetPublisher(t *testing.T) {
	f := newFixture(t, nil)
	a := f.user("alice")
	post := f.rawPost(a, domain.StatusPublish)
	router := f.router

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/plugins/%s/posts/%d", Name, post.ID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			PostID       uint64 `json:"post_id"`
			PublisherID  uint64 `json:"publisher_id"`
			Guessed      bool   `json:"guessed"`
			Source       string `json:"source"`
			PublisherURL string `json:"publisher_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, a, body.Data.PublisherID)
	assert.True(t, body.Data.Guessed)
	assert.Equal(t, "author", body.Data.Source)
	assert.Equal(t, fmt.Sprintf("/admin/user-edit?user_id=%d", a), body.Data.PublisherURL)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/plugins/"+Name+"/posts/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoute_DisabledPluginReturnsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	post := f.rawPost(f.user("alice"), domain.StatusPublish)
	path := fmt.Sprintf("/api/plugins/%s/posts/%d", Name, post.ID)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.manager.Disable(Name))
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "publisher_id")
}

func TestReload_ServesRequestsDuringReload(t *testing.T) {
	f := newFixture(t, nil)
	a := f.user("alice")
	post := f.rawPost(a, domain.StatusPublish)
	path := fmt.Sprintf("/api/plugins/%s/posts/%d", Name, post.ID)

	var wg sync.WaitGroup
	codes := make(chan int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(skip bool) {
			defer wg.Done()
			f.manager.SetSettings(Name, map[string]interface{}{"skip_guessing": skip})
			assert.NoError(t, f.manager.ReloadPlugin(Name))
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.True(t, f.manager.IsEnabled(Name))
	assert.True(t, f.manager.Meta().Exists(MetaKey))
}

func TestReload_KeepsRecordingPublishes(t *testing.T) {
	f := newFixture(t, nil)
	a := f.user("alice")

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				_ = f.manager.ReloadPlugin(Name)
				time.Sleep(time.Millisecond)
			}
		}
	}()

	var ids []uint64
	for i := 0; i < 30; i++ {
		post, err := f.posts.Create(as(a), &service.CreatePostRequest{Title: "t", Status: domain.StatusPublish})
		if assert.NoError(t, err) {
			ids = append(ids, post.ID)
		}
	}
	close(stop)
	<-done

	require.Len(t, ids, 30)
	for _, id := range ids {
		assert.Equal(t, a, f.record(id), "post %d", id)
	}
}

func TestReload_FailureKeepsPreviousSettings(t *testing.T) {
	f := newFixture(t, map[string]interface{}{"skip_guessing": true})
	a := f.user("alice")
	post := f.rawPost(a, domain.StatusPublish)
	require.Zero(t, f.resolve(post.ID).PublisherID)

	// 다른 플러그인이 meta key 를 선점하면 재초기화가 실패함
	f.manager.Meta().Unregister(Name)
	require.NoError(t, f.manager.Meta().Register("squatter", plugin.MetaDefinition{Namespace: "x", Key: MetaKey}))
	f.manager.SetSettings(Name, map[string]interface{}{"skip_guessing": false})

	require.Error(t, f.manager.ReloadPlugin(Name))
	assert.True(t, f.manager.IsEnabled(Name))
	assert.Zero(t, f.resolve(post.ID).PublisherID, "previous settings stay active")
}

func TestParseSettings(t *testing.T) {
	assert.Equal(t, []string{"private", "publish"}, parseStatuses(" private, publish ,"))
	assert.Equal(t, []string{"publish"}, parseStatuses([]interface{}{"publish", 3}))
	assert.Equal(t, []string{"draft"}, parseStatuses([]string{"draft"}))
	assert.Empty(t, parseStatuses(nil))

	assert.True(t, parseBool(true))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool("no"))
	assert.False(t, parseBool(nil))
}
