package publishedby

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/pkg/auth"
	"github.com/damoang/angple-published-by/pkg/i18n"
)

// ColumnName admin listing column key
const ColumnName = "published_by"

// GuessClass marks a publisher that was guessed rather than recorded
const GuessClass = "published-by-guess"

const adminCSS = `<style type="text/css">.fixed .column-` + ColumnName + ` {width:10%;}
#published-by {font-weight:600;}
#published-by a {color:#444;}
.` + GuessClass + ` {font-style:italic;}
.` + GuessClass + `:after {content:'?';}
</style>
`

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// UserLookup resolves display names
type UserLookup interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
}

// Listing admin listing being rendered
type Listing struct {
	PostType string
	Status   string // 목록의 상태 필터, 비어있으면 전체
}

// Renderer renders the publisher for every listing type it supports
// (post and page share the same code path) and for the edit sidebar.
type Renderer struct {
	resolver     *Resolver
	users        UserLookup
	policy       *Policy
	texts        *i18n.Bundle
	adminBaseURL string
	postTypes    map[string]bool
}

// NewRenderer creates a Renderer for the given post types
func NewRenderer(resolver *Resolver, users UserLookup, policy *Policy, texts *i18n.Bundle, adminBaseURL string, postTypes ...string) *Renderer {
	if len(postTypes) == 0 {
		postTypes = []string{domain.PostTypePost, domain.PostTypePage}
	}
	types := make(map[string]bool, len(postTypes))
	for _, t := range postTypes {
		types[t] = true
	}
	return &Renderer{
		resolver:     resolver,
		users:        users,
		policy:       policy,
		texts:        texts,
		adminBaseURL: strings.TrimRight(adminBaseURL, "/"),
		postTypes:    types,
	}
}

// Supports 목록 타입 지원 여부
func (r *Renderer) Supports(postType string) bool {
	return r.postTypes[postType]
}

// IncludeColumn 상태 필터가 없거나 표시 대상 상태일 때만 컬럼 노출
func (r *Renderer) IncludeColumn(ctx context.Context, listing Listing) bool {
	if !r.Supports(listing.PostType) {
		return false
	}
	return listing.Status == "" || r.policy.IsVisible(ctx, listing.Status)
}

// Columns 목록 컬럼에 발행자 컬럼 추가
func (r *Renderer) Columns(ctx context.Context, listing Listing, columns []plugin.Column) []plugin.Column {
	if !r.IncludeColumn(ctx, listing) {
		return columns
	}
	out := make([]plugin.Column, 0, len(columns)+1)
	out = append(out, columns...)
	return append(out, plugin.Column{Name: ColumnName, Label: r.texts.TContext(ctx, "Published By")})
}

// ColumnCell 목록 셀 HTML. 발행자가 없거나 판별 실패 시 빈 문자열
func (r *Renderer) ColumnCell(ctx context.Context, listing Listing, postID uint64) string {
	if !r.IncludeColumn(ctx, listing) {
		return ""
	}
	res, err := r.resolver.Resolve(ctx, postID)
	if err != nil || res.PublisherID == 0 {
		return ""
	}

	class := guessClass(res)
	if res.PublisherID == auth.UserID(ctx) {
		return fmt.Sprintf(`<span class="%s">you</span>`, class)
	}
	return fmt.Sprintf(`<a href="%s" class="%s">%s</a>`,
		html.EscapeString(r.UserURL(res.PublisherID)), class, r.displayName(ctx, res.PublisherID))
}

// Sidebar 편집 화면 발행 박스 HTML
func (r *Renderer) Sidebar(ctx context.Context, post *domain.Post) string {
	if post == nil || !r.policy.IsVisible(ctx, post.Status) {
		return ""
	}
	res, err := r.resolver.ResolvePost(ctx, post)
	if err != nil || res.PublisherID == 0 {
		return ""
	}

	class := guessClass(res)
	var link string
	if res.PublisherID == auth.UserID(ctx) {
		link = fmt.Sprintf(`<b class="%s">you</b>`, class)
	} else {
		link = fmt.Sprintf(`<span id="published-by"><a href="%s" class="%s">%s</a></span>`,
			html.EscapeString(r.UserURL(res.PublisherID)), class, r.displayName(ctx, res.PublisherID))
	}

	return `<div class="misc-pub-section misc-pub-published-by">` +
		r.texts.TContext(ctx, "Published by: %s", link) +
		`</div>`
}

// CSS admin head 스타일. 컬럼이 숨겨지는 목록에서는 빈 문자열
func (r *Renderer) CSS(ctx context.Context, listing Listing) string {
	if listing.PostType != "" && !r.Supports(listing.PostType) {
		return ""
	}
	if listing.Status != "" && !r.policy.IsVisible(ctx, listing.Status) {
		return ""
	}
	return adminCSS
}

// UserURL 관리자 사용자 편집 URL, id 0 이면 빈 문자열
func (r *Renderer) UserURL(userID uint64) string {
	if userID == 0 {
		return ""
	}
	return r.adminBaseURL + "/user-edit?user_id=" + strconv.FormatUint(userID, 10)
}

func (r *Renderer) displayName(ctx context.Context, userID uint64) string {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return SanitizeDisplayName(user.DisplayName())
}

// SanitizeDisplayName 태그 제거, 공백 정리 후 HTML 이스케이프
func SanitizeDisplayName(name string) string {
	name = strings.ToValidUTF8(name, "")
	name = tagPattern.ReplaceAllString(name, "")
	name = whitespacePattern.ReplaceAllString(name, " ")
	return html.EscapeString(strings.TrimSpace(name))
}

func guessClass(res Result) string {
	if res.Guessed {
		return GuessClass
	}
	return ""
}
