package publishedby

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/repository"
	"github.com/damoang/angple-published-by/pkg/cache"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Name plugin name
const Name = "published-by"

// init 플러그인 팩토리 자동 등록
func init() {
	plugin.RegisterFactory(Name, func() plugin.Plugin {
		return New()
	}, Manifest)
}

// Manifest 플러그인 매니페스트
var Manifest = &plugin.PluginManifest{
	Name:        Name,
	Version:     "1.2.0",
	Title:       "Published By",
	Description: "게시글/페이지를 실제로 발행한 사용자를 기록하고 관리자 목록과 편집 화면에 표시합니다.",
	Author:      "Damoang Team",
	License:     "GPL-2.0",
	Settings: []plugin.SettingConfig{
		{
			Key:     "visible_statuses",
			Type:    "post_statuses",
			Default: "private,publish",
			Label:   "발행자를 표시할 상태 (쉼표 구분)",
		},
		{
			Key:     "skip_guessing",
			Type:    "boolean",
			Default: false,
			Label:   "기록이 없을 때 추정하지 않음",
		},
		{
			Key:     "admin_base_url",
			Type:    "string",
			Default: "/admin",
			Label:   "관리자 화면 기본 URL",
		},
	},
}

// Plugin published-by 플러그인
type Plugin struct {
	// 재초기화 시 통째로 교체 (요청 처리 중에도 안전)
	rt atomic.Pointer[instance]
}

// instance 한 번의 초기화로 만들어진 구성 요소
type instance struct {
	db       *gorm.DB
	log      plugin.Logger
	meta     *plugin.MetaRegistry
	store    *Store
	resolver *Resolver
	recorder *Recorder
	renderer *Renderer
}

// New 플러그인 인스턴스 생성
func New() *Plugin {
	return &Plugin{}
}

// Name 플러그인 이름 반환
func (p *Plugin) Name() string {
	return Name
}

// Migrate 자체 테이블 없음 (호스트 post meta 사용)
func (p *Plugin) Migrate(_ *gorm.DB) error {
	return nil
}

// Initialize 플러그인 초기화. 재호출 시 새 구성 요소로 교체
func (p *Plugin) Initialize(ctx *plugin.PluginContext) error {
	if ctx.DB == nil {
		return fmt.Errorf("%s: database is required", Name)
	}

	metaRepo := repository.NewCachedPostMetaRepository(
		repository.NewPostMetaRepository(ctx.DB),
		cache.NewService(ctx.Redis),
		nil,
	)

	policy := NewPolicy(ctx.Hooks, parseStatuses(ctx.Config["visible_statuses"]), parseBool(ctx.Config["skip_guessing"]))
	adminBaseURL, _ := ctx.Config["admin_base_url"].(string)

	rt := &instance{
		db:    ctx.DB,
		log:   ctx.Logger,
		meta:  ctx.Meta,
		store: NewStore(metaRepo),
	}
	rt.resolver = NewResolver(repository.NewPostRepository(ctx.DB), repository.NewRevisionRepository(ctx.DB), rt.store, policy)
	rt.recorder = NewRecorder(rt.store, ctx.Logger)
	rt.renderer = NewRenderer(rt.resolver, repository.NewUserRepository(ctx.DB), policy, newTexts(), adminBaseURL)

	if ctx.Meta != nil {
		if err := ctx.Meta.Register(Name, p.metaDefinition()); err != nil {
			return err
		}
	}

	p.rt.Store(rt)
	rt.log.Info("published-by initialized: statuses=%v skip_guessing=%v", policy.statuses, policy.skipGuessing)
	return nil
}

// Shutdown 플러그인 종료
func (p *Plugin) Shutdown() error {
	if rt := p.rt.Load(); rt != nil && rt.meta != nil {
		rt.meta.Unregister(Name)
	}
	return nil
}

// HealthCheck DB 연결 확인
func (p *Plugin) HealthCheck() error {
	rt := p.rt.Load()
	if rt == nil {
		return fmt.Errorf("not initialized")
	}
	sqlDB, err := rt.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Resolver 발행자 판별기 (호스트/테스트용). 초기화 전이면 nil
func (p *Plugin) Resolver() *Resolver {
	if rt := p.rt.Load(); rt != nil {
		return rt.resolver
	}
	return nil
}

// Renderer 표시 렌더러. 초기화 전이면 nil
func (p *Plugin) Renderer() *Renderer {
	if rt := p.rt.Load(); rt != nil {
		return rt.renderer
	}
	return nil
}

// RegisterHooks Hook 등록 (HookAware 인터페이스)
func (p *Plugin) RegisterHooks(hm *plugin.HookManager) {
	hm.Register(plugin.HookPostTransitionStatus, Name, p.onTransition, 10)

	hm.RegisterFilter(plugin.HookAdminListColumns, Name, p.filterColumns, 10)
	hm.RegisterFilter(plugin.HookAdminListColumnValue, Name, p.filterColumnValue, 10)
	hm.RegisterFilter(plugin.HookAdminPostSubmitbox, Name, p.filterSubmitbox, 10)
	hm.RegisterFilter(plugin.HookAdminHead, Name, p.filterHead, 10)
}

// RegisterRoutes 라우트 등록
func (p *Plugin) RegisterRoutes(router gin.IRouter) {
	h := &handler{plugin: p}
	router.GET("/posts/:id", h.GetPublisher)
}

func (p *Plugin) metaDefinition() plugin.MetaDefinition {
	return plugin.MetaDefinition{
		Namespace:      MetaNamespace,
		Key:            MetaKey,
		Type:           plugin.MetaTypeInteger,
		Description:    "The user who published the post",
		Single:         true,
		Sanitize:       Absint,
		AuthorizeWrite: plugin.DenyWrite,
		ShowInREST:     true,
	}
}

func (p *Plugin) onTransition(hc *plugin.HookContext) error {
	rt := p.rt.Load()
	if rt == nil {
		return nil
	}
	return rt.recorder.onTransition(hc)
}

func (p *Plugin) filterColumns(hc *plugin.HookContext) error {
	renderer := p.Renderer()
	if renderer == nil {
		return nil
	}
	columns, _ := hc.Input["columns"].([]plugin.Column)
	out := renderer.Columns(hc.Context, listingFrom(hc.Input), columns)
	hc.SetOutput(hc.With("columns", out))
	return nil
}

func (p *Plugin) filterColumnValue(hc *plugin.HookContext) error {
	if column, _ := hc.Input["column"].(string); column != ColumnName {
		return nil
	}
	renderer := p.Renderer()
	if renderer == nil {
		return nil
	}
	postID, _ := hc.Input["post_id"].(uint64)
	cell := renderer.ColumnCell(hc.Context, listingFrom(hc.Input), postID)
	hc.SetOutput(hc.With("html", cell))
	return nil
}

func (p *Plugin) filterSubmitbox(hc *plugin.HookContext) error {
	renderer := p.Renderer()
	if renderer == nil {
		return nil
	}
	post, _ := hc.Input["post"].(*domain.Post)
	block := renderer.Sidebar(hc.Context, post)
	if block == "" {
		return nil
	}
	current, _ := hc.Input["html"].(string)
	hc.SetOutput(hc.With("html", current+block))
	return nil
}

func (p *Plugin) filterHead(hc *plugin.HookContext) error {
	renderer := p.Renderer()
	if renderer == nil {
		return nil
	}
	listing := Listing{}
	if screen, _ := hc.Input["screen"].(string); screen == plugin.ScreenList {
		listing = listingFrom(hc.Input)
	}
	css := renderer.CSS(hc.Context, listing)
	if css == "" {
		return nil
	}
	current, _ := hc.Input["styles"].(string)
	hc.SetOutput(hc.With("styles", current+css))
	return nil
}

func listingFrom(input map[string]interface{}) Listing {
	postType, _ := input["post_type"].(string)
	status, _ := input["post_status"].(string)
	if postType == "" {
		postType = domain.PostTypePost
	}
	return Listing{PostType: postType, Status: status}
}

// parseStatuses "a,b" 문자열 또는 목록
func parseStatuses(v interface{}) []string {
	var raw []string
	switch s := v.(type) {
	case string:
		raw = strings.Split(s, ",")
	case []string:
		raw = s
	case []interface{}:
		for _, item := range s {
			if str, ok := item.(string); ok {
				raw = append(raw, str)
			}
		}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1"
	}
	return false
}
