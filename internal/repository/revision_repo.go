package repository

import (
	"context"
	"errors"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"gorm.io/gorm"
)

// RevisionRepository content revision data access
type RevisionRepository interface {
	Create(ctx context.Context, revision *domain.ContentRevision) error
	FindByPostID(ctx context.Context, postID uint64) ([]*domain.ContentRevision, error)
	Latest(ctx context.Context, postID uint64) (*domain.ContentRevision, error)
	GetNextVersion(ctx context.Context, postID uint64) (uint, error)
}

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) Create(ctx context.Context, revision *domain.ContentRevision) error {
	return r.db.WithContext(ctx).Create(revision).Error
}

// FindByPostID 최신 버전부터 정렬
func (r *revisionRepository) FindByPostID(ctx context.Context, postID uint64) ([]*domain.ContentRevision, error) {
	var revisions []*domain.ContentRevision
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("version DESC, id DESC").Find(&revisions).Error
	return revisions, err
}

// Latest 가장 최근 리비전, 없으면 common.ErrNotFound
func (r *revisionRepository) Latest(ctx context.Context, postID uint64) (*domain.ContentRevision, error) {
	var revision domain.ContentRevision
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("version DESC, id DESC").First(&revision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &revision, nil
}

func (r *revisionRepository) GetNextVersion(ctx context.Context, postID uint64) (uint, error) {
	var maxVersion *uint
	err := r.db.WithContext(ctx).Model(&domain.ContentRevision{}).
		Where("post_id = ?", postID).
		Select("MAX(version)").
		Scan(&maxVersion).Error
	if err != nil {
		return 1, err
	}
	if maxVersion == nil {
		return 1, nil
	}
	return *maxVersion + 1, nil
}
