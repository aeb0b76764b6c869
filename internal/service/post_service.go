package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/repository"
	"github.com/damoang/angple-published-by/pkg/auth"
	"github.com/damoang/angple-published-by/pkg/logger"
)

// CreatePostRequest 게시글 생성 요청
type CreatePostRequest struct {
	PostType string                 `json:"post_type"`
	Title    string                 `json:"title" binding:"required,max=255"`
	Content  string                 `json:"content"`
	Status   string                 `json:"status"`
	Meta     map[string]interface{} `json:"meta"`
}

// UpdatePostRequest 게시글 수정 요청 (nil 필드는 유지)
type UpdatePostRequest struct {
	Title   *string                `json:"title" binding:"omitempty,max=255"`
	Content *string                `json:"content"`
	Status  *string                `json:"status"`
	Meta    map[string]interface{} `json:"meta"`
}

// PostWithMeta REST 응답
type PostWithMeta struct {
	*domain.Post
	Meta map[string]interface{} `json:"meta"`
}

// PostService 게시글 저장과 상태 전이 훅 발행
type PostService struct {
	postRepo     repository.PostRepository
	revisionRepo repository.RevisionRepository
	metaRepo     repository.PostMetaRepository
	userRepo     repository.UserRepository
	hooks        *plugin.HookManager
	meta         *plugin.MetaRegistry
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repository.PostRepository,
	revisionRepo repository.RevisionRepository,
	metaRepo repository.PostMetaRepository,
	userRepo repository.UserRepository,
	hooks *plugin.HookManager,
	meta *plugin.MetaRegistry,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		revisionRepo: revisionRepo,
		metaRepo:     metaRepo,
		userRepo:     userRepo,
		hooks:        hooks,
		meta:         meta,
	}
}

// Get 게시글 조회
func (s *PostService) Get(ctx context.Context, id uint64) (*domain.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

// GetWithMeta REST 공개 메타를 포함한 게시글 조회
func (s *PostService) GetWithMeta(ctx context.Context, id uint64) (*PostWithMeta, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]interface{})
	for _, def := range s.meta.RESTFields() {
		meta[def.Key] = s.restValue(ctx, id, def)
	}
	return &PostWithMeta{Post: post, Meta: meta}, nil
}

// List admin 목록 조회
func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]*domain.Post, int64, error) {
	if filter.PostType == "" {
		filter.PostType = domain.PostTypePost
	}
	if !domain.IsValidPostType(filter.PostType) {
		return nil, 0, common.ErrInvalidPostType
	}
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, 0, common.ErrInvalidStatus
	}
	return s.postRepo.List(ctx, filter)
}

// Create 게시글 생성 후 new → status 전이 발행
func (s *PostService) Create(ctx context.Context, req *CreatePostRequest) (*domain.Post, error) {
	if req.PostType == "" {
		req.PostType = domain.PostTypePost
	}
	if req.Status == "" {
		req.Status = domain.StatusDraft
	}
	if !domain.IsValidPostType(req.PostType) {
		return nil, common.ErrInvalidPostType
	}
	if !domain.IsValidStatus(req.Status) {
		return nil, common.ErrInvalidStatus
	}
	if err := s.checkMetaWrite(ctx, 0, req.Meta); err != nil {
		return nil, err
	}

	post := &domain.Post{
		PostType: req.PostType,
		UserID:   auth.UserID(ctx),
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := s.writeMeta(ctx, post.ID, req.Meta); err != nil {
		return nil, err
	}

	s.hooks.Do(ctx, plugin.HookPostAfterCreate, map[string]interface{}{"post": post})
	s.transition(ctx, post, domain.StatusNew)
	return post, nil
}

// Update 게시글 수정. 리비전과 _edit_last 를 수정자로 기록하고,
// 요청에 status 가 있으면 같은 값이라도 전이 훅을 발행한다.
func (s *PostService) Update(ctx context.Context, id uint64, req *UpdatePostRequest) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && !domain.IsValidStatus(*req.Status) {
		return nil, common.ErrInvalidStatus
	}
	if err := s.checkMetaWrite(ctx, id, req.Meta); err != nil {
		return nil, err
	}

	oldStatus := post.Status
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Status != nil {
		post.Status = *req.Status
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if err := s.writeMeta(ctx, id, req.Meta); err != nil {
		return nil, err
	}
	if _, err := s.SaveRevision(ctx, id); err != nil {
		logger.Warn("revision save failed post=%d: %v", id, err)
	}
	if actor := auth.UserID(ctx); actor != 0 {
		if err := s.metaRepo.Set(ctx, id, domain.MetaNamespaceCore, domain.MetaKeyEditLast, actor); err != nil {
			logger.Warn("edit_last update failed post=%d: %v", id, err)
		}
	}

	s.hooks.Do(ctx, plugin.HookPostAfterUpdate, map[string]interface{}{"post": post})
	if req.Status != nil {
		s.transition(ctx, post, oldStatus)
	}
	return post, nil
}

// Publish status 를 publish 로 전이
func (s *PostService) Publish(ctx context.Context, id uint64) (*domain.Post, error) {
	status := domain.StatusPublish
	return s.Update(ctx, id, &UpdatePostRequest{Status: &status})
}

// SaveRevision 현재 내용을 요청 사용자 명의의 리비전으로 저장
func (s *PostService) SaveRevision(ctx context.Context, id uint64) (*domain.ContentRevision, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	version, err := s.revisionRepo.GetNextVersion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("next revision version: %w", err)
	}

	revision := &domain.ContentRevision{
		PostID:   id,
		Version:  version,
		Title:    post.Title,
		Content:  post.Content,
		EditedBy: auth.UserID(ctx),
	}
	if a, ok := auth.FromContext(ctx); ok {
		revision.EditedByName = a.Nickname
	}
	if err := s.revisionRepo.Create(ctx, revision); err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}
	return revision, nil
}

func (s *PostService) transition(ctx context.Context, post *domain.Post, oldStatus string) {
	s.hooks.Do(ctx, plugin.HookPostTransitionStatus, map[string]interface{}{
		"new_status": post.Status,
		"old_status": oldStatus,
		"post":       post,
	})
}

// checkMetaWrite 모든 메타 키가 공개 API로 쓰기 가능한지 먼저 확인
func (s *PostService) checkMetaWrite(ctx context.Context, postID uint64, meta map[string]interface{}) error {
	for key := range meta {
		def, ok := s.meta.Lookup(key)
		if !ok {
			return fmt.Errorf("%w: %s", common.ErrMetaNotRegistered, key)
		}
		if !def.CanWrite(ctx, postID) {
			return fmt.Errorf("%w: %s", common.ErrMetaNotWritable, key)
		}
	}
	return nil
}

func (s *PostService) writeMeta(ctx context.Context, postID uint64, meta map[string]interface{}) error {
	for key, value := range meta {
		def, _ := s.meta.Lookup(key)
		clean, err := def.Clean(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", common.ErrInvalidInput, key, err)
		}
		if err := s.metaRepo.Set(ctx, postID, def.Namespace, def.Key, clean); err != nil {
			return fmt.Errorf("write meta %s: %w", key, err)
		}
	}
	return nil
}

func (s *PostService) restValue(ctx context.Context, postID uint64, def plugin.MetaDefinition) interface{} {
	raw, err := s.metaRepo.GetRaw(ctx, postID, def.Namespace, def.Key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			logger.Warn("meta read failed post=%d key=%s: %v", postID, def.Key, err)
		}
		return def.Zero()
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return def.Zero()
	}
	clean, err := def.Clean(value)
	if err != nil {
		return def.Zero()
	}
	return clean
}
