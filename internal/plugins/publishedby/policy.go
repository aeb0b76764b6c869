package publishedby

import (
	"context"

	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
)

// Filters other plugins can hook to adjust behavior
const (
	// FilterPostStatuses Input {"statuses": []string}
	FilterPostStatuses = "published_by.post_statuses"

	// FilterSkipGuessing Input {"skip": bool, "post_id": uint64}
	FilterSkipGuessing = "published_by.skip_guessing"
)

// DefaultVisibleStatuses statuses for which a publisher is resolved and shown
var DefaultVisibleStatuses = []string{domain.StatusPrivate, domain.StatusPublish}

// Policy evaluates the filterable settings for one call
type Policy struct {
	hooks        *plugin.HookManager
	statuses     []string
	skipGuessing bool
}

// NewPolicy creates a Policy. An empty statuses list means DefaultVisibleStatuses.
func NewPolicy(hooks *plugin.HookManager, statuses []string, skipGuessing bool) *Policy {
	if len(statuses) == 0 {
		statuses = DefaultVisibleStatuses
	}
	return &Policy{
		hooks:        hooks,
		statuses:     append([]string(nil), statuses...),
		skipGuessing: skipGuessing,
	}
}

// VisibleStatuses 필터 적용 후 상태 목록
func (p *Policy) VisibleStatuses(ctx context.Context) []string {
	statuses := append([]string(nil), p.statuses...)
	if p.hooks == nil {
		return statuses
	}
	out := p.hooks.Apply(ctx, FilterPostStatuses, map[string]interface{}{"statuses": statuses})
	if filtered, ok := out["statuses"].([]string); ok {
		return filtered
	}
	return statuses
}

// IsVisible status 가 표시 대상인지
func (p *Policy) IsVisible(ctx context.Context, status string) bool {
	for _, s := range p.VisibleStatuses(ctx) {
		if s == status {
			return true
		}
	}
	return false
}

// SkipGuessing 추정 단계를 건너뛸지
func (p *Policy) SkipGuessing(ctx context.Context, postID uint64) bool {
	if p.hooks == nil {
		return p.skipGuessing
	}
	out := p.hooks.Apply(ctx, FilterSkipGuessing, map[string]interface{}{
		"skip":    p.skipGuessing,
		"post_id": postID,
	})
	if skip, ok := out["skip"].(bool); ok {
		return skip
	}
	return p.skipGuessing
}
