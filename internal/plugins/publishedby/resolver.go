package publishedby

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/repository"
)

// Source signal that produced a resolution
type Source string

const (
	SourceNone       Source = "none"
	SourceRecord     Source = "record"
	SourceLastEditor Source = "last_editor"
	SourceRevision   Source = "revision"
	SourceAuthor     Source = "author"
)

// Result 발행자 판별 결과. Guessed 는 기록이 아닌 추정값일 때 true
type Result struct {
	PublisherID uint64 `json:"publisher_id"`
	Guessed     bool   `json:"guessed"`
	Source      Source `json:"source"`
}

var noPublisher = Result{Source: SourceNone}

// Resolver determines who published an item.
//
// Order: the explicit record, then (unless guessing is skipped) the host's
// last editor, the author of the latest revision and finally the item author.
// Everything past the explicit record is flagged as guessed. It never writes.
type Resolver struct {
	posts     repository.PostRepository
	revisions repository.RevisionRepository
	store     *Store
	policy    *Policy
}

// NewResolver creates a Resolver
func NewResolver(posts repository.PostRepository, revisions repository.RevisionRepository, store *Store, policy *Policy) *Resolver {
	return &Resolver{
		posts:     posts,
		revisions: revisions,
		store:     store,
		policy:    policy,
	}
}

// Resolve 게시글 ID로 판별. 게시글이 없으면 0
func (r *Resolver) Resolve(ctx context.Context, postID uint64) (Result, error) {
	post, err := r.posts.FindByID(ctx, postID)
	if errors.Is(err, common.ErrPostNotFound) {
		return r.done(noPublisher), nil
	}
	if err != nil {
		return noPublisher, err
	}
	return r.ResolvePost(ctx, post)
}

// ResolvePost 이미 조회한 게시글로 판별
func (r *Resolver) ResolvePost(ctx context.Context, post *domain.Post) (Result, error) {
	if post == nil || !r.policy.IsVisible(ctx, post.Status) {
		return r.done(noPublisher), nil
	}

	id, err := r.store.PublisherID(ctx, post.ID)
	if err != nil {
		return noPublisher, err
	}
	if id != 0 {
		return r.done(Result{PublisherID: id, Source: SourceRecord}), nil
	}

	if r.policy.SkipGuessing(ctx, post.ID) {
		return r.done(noPublisher), nil
	}

	id, err = r.store.LastEditor(ctx, post.ID)
	if err != nil {
		return noPublisher, err
	}
	if id != 0 {
		return r.done(Result{PublisherID: id, Guessed: true, Source: SourceLastEditor}), nil
	}

	rev, err := r.revisions.Latest(ctx, post.ID)
	switch {
	case err == nil:
		// 최신 리비전이 있으면 그 작성자로 확정 (0 이어도)
		return r.done(Result{PublisherID: rev.EditedBy, Guessed: true, Source: SourceRevision}), nil
	case !errors.Is(err, common.ErrNotFound):
		return noPublisher, fmt.Errorf("latest revision post=%d: %w", post.ID, err)
	}

	return r.done(Result{PublisherID: post.UserID, Guessed: true, Source: SourceAuthor}), nil
}

func (r *Resolver) done(res Result) Result {
	resolutionsTotal.WithLabelValues(string(res.Source)).Inc()
	return res
}
