package handler

import (
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/middleware"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/repository"
	"github.com/damoang/angple-published-by/internal/service"
	"github.com/damoang/angple-published-by/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// 기본 목록 컬럼 (플러그인 컬럼은 뒤에 추가)
var builtinColumns = []string{"title", "author", "status", "date"}

// AdminHandler admin listing and edit screens
type AdminHandler struct {
	postService *service.PostService
	users       repository.UserRepository
	hooks       *plugin.HookManager
	texts       *i18n.Bundle
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(postService *service.PostService, users repository.UserRepository, hooks *plugin.HookManager, texts *i18n.Bundle) *AdminHandler {
	return &AdminHandler{
		postService: postService,
		users:       users,
		hooks:       hooks,
		texts:       texts,
	}
}

// ListRow admin 목록 행
type ListRow struct {
	ID    uint64            `json:"id"`
	Cells map[string]string `json:"cells"`
}

// ListView admin 목록 응답
type ListView struct {
	PostType string          `json:"post_type"`
	Status   string          `json:"post_status,omitempty"`
	Columns  []plugin.Column `json:"columns"`
	Rows     []ListRow       `json:"rows"`
	Head     string          `json:"head"`
}

// EditView 편집 화면 응답
type EditView struct {
	Post      *domain.Post `json:"post"`
	Submitbox string       `json:"submitbox"`
	Head      string       `json:"head"`
}

// ListPosts godoc
// @Summary      관리자 게시글 목록
// @Description  플러그인 컬럼(발행자 등)과 셀 HTML, head 스타일을 포함한 목록을 조회합니다 (관리자 전용)
// @Tags         admin
// @Produce      json
// @Param        post_type    query     string  false  "post | page"  default(post)
// @Param        post_status  query     string  false  "상태 필터 (draft, pending, private, publish, future, trash)"
// @Param        page         query     int     false  "페이지 번호"  default(1)
// @Param        limit        query     int     false  "페이지당 항목 수"  default(20)
// @Success      200  {object}  common.V2Response{data=ListView}
// @Failure      400  {object}  common.V2Response
// @Failure      401  {object}  common.V2Response
// @Failure      403  {object}  common.V2Response
// @Security     BearerAuth
// @Router       /api/v2/admin/posts [get]
func (h *AdminHandler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	postType := c.DefaultQuery("post_type", domain.PostTypePost)
	status := c.Query("post_status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	posts, total, err := h.postService.List(ctx, repository.PostFilter{
		PostType: postType,
		Status:   status,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		common.V2FromError(c, "게시글 목록 조회 실패", err)
		return
	}

	columns := h.columns(c, postType, status)
	authors := h.authorNames(c, posts)

	rows := make([]ListRow, 0, len(posts))
	for _, post := range posts {
		cells := map[string]string{
			"title":  html.EscapeString(post.Title),
			"author": authors[post.UserID],
			"status": post.Status,
			"date":   post.CreatedAt.Format("2006/01/02 15:04"),
		}
		for _, col := range columns {
			if isBuiltin(col.Name) {
				continue
			}
			out := h.hooks.Apply(ctx, plugin.HookAdminListColumnValue, map[string]interface{}{
				"post_type":   postType,
				"post_status": status,
				"column":      col.Name,
				"post_id":     post.ID,
				"html":        "",
			})
			cells[col.Name], _ = out["html"].(string)
		}
		rows = append(rows, ListRow{ID: post.ID, Cells: cells})
	}

	head := h.hooks.Apply(ctx, plugin.HookAdminHead, map[string]interface{}{
		"screen":      plugin.ScreenList,
		"post_type":   postType,
		"post_status": status,
		"styles":      "",
	})

	view := ListView{PostType: postType, Status: status, Columns: columns, Rows: rows}
	view.Head, _ = head["styles"].(string)

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	common.V2SuccessWithMeta(c, view, common.NewV2Meta(page, limit, total))
}

// EditPost godoc
// @Summary      관리자 게시글 편집 화면
// @Description  게시글과 발행 박스(submitbox) HTML을 조회합니다 (관리자 전용)
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "게시글 ID"
// @Success      200  {object}  common.V2Response{data=EditView}
// @Failure      400  {object}  common.V2Response
// @Failure      404  {object}  common.V2Response
// @Security     BearerAuth
// @Router       /api/v2/admin/posts/{id}/edit [get]
func (h *AdminHandler) EditPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "잘못된 게시글 ID", err)
		return
	}

	ctx := c.Request.Context()
	post, err := h.postService.Get(ctx, id)
	if err != nil {
		common.V2FromError(c, "게시글 조회 실패", err)
		return
	}

	base := fmt.Sprintf(`<div class="misc-pub-section misc-pub-post-status">%s: <b>%s</b></div>`,
		h.texts.T(middleware.GetLocale(c), "admin.column.status"), html.EscapeString(post.Status))
	box := h.hooks.Apply(ctx, plugin.HookAdminPostSubmitbox, map[string]interface{}{
		"post": post,
		"html": base,
	})
	head := h.hooks.Apply(ctx, plugin.HookAdminHead, map[string]interface{}{
		"screen":      plugin.ScreenEdit,
		"post_type":   post.PostType,
		"post_status": "",
		"styles":      "",
	})

	view := EditView{Post: post}
	view.Submitbox, _ = box["html"].(string)
	view.Head, _ = head["styles"].(string)
	common.V2Success(c, view)
}

func (h *AdminHandler) columns(c *gin.Context, postType, status string) []plugin.Column {
	locale := middleware.GetLocale(c)
	columns := make([]plugin.Column, 0, len(builtinColumns))
	for _, name := range builtinColumns {
		columns = append(columns, plugin.Column{Name: name, Label: h.texts.T(locale, "admin.column."+name)})
	}

	out := h.hooks.Apply(c.Request.Context(), plugin.HookAdminListColumns, map[string]interface{}{
		"post_type":   postType,
		"post_status": status,
		"columns":     columns,
	})
	if filtered, ok := out["columns"].([]plugin.Column); ok {
		return filtered
	}
	return columns
}

func (h *AdminHandler) authorNames(c *gin.Context, posts []*domain.Post) map[uint64]string {
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	users, err := h.users.FindByIDs(c.Request.Context(), ids)
	names := make(map[uint64]string, len(users))
	if err != nil {
		return names
	}
	for id, u := range users {
		names[id] = html.EscapeString(u.DisplayName())
	}
	return names
}

func isBuiltin(name string) bool {
	for _, b := range builtinColumns {
		if b == name {
			return true
		}
	}
	return false
}
