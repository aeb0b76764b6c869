package domain

import "time"

// Post types handled by the admin listings
const (
	PostTypePost = "post"
	PostTypePage = "page"
)

// Post statuses
const (
	StatusNew     = "new" // pseudo status: old_status of a freshly created item
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPrivate = "private"
	StatusPublish = "publish"
	StatusFuture  = "future"
	StatusTrash   = "trash"
)

// Host-managed post meta
const (
	MetaNamespaceCore = "core"
	MetaKeyEditLast   = "_edit_last" // last user who saved the item through Update
)

var knownStatuses = map[string]bool{
	StatusDraft:   true,
	StatusPending: true,
	StatusPrivate: true,
	StatusPublish: true,
	StatusFuture:  true,
	StatusTrash:   true,
}

// IsValidStatus reports whether s can be stored as a post status
func IsValidStatus(s string) bool {
	return knownStatuses[s]
}

// IsValidPostType reports whether t is a supported content type
func IsValidPostType(t string) bool {
	return t == PostTypePost || t == PostTypePage
}

// Post is a content item (post or page)
type Post struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostType  string    `gorm:"column:post_type;type:varchar(20);index;default:'post'" json:"post_type"`
	UserID    uint64    `gorm:"column:user_id;index" json:"author"`
	Title     string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Content   string    `gorm:"column:content;type:mediumtext" json:"content"`
	Status    string    `gorm:"column:status;type:varchar(20);index;default:'draft'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Post) TableName() string { return "v2_posts" }

// ContentRevision stores post revision history
type ContentRevision struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID       uint64    `gorm:"column:post_id;index" json:"post_id"`
	Version      uint      `gorm:"column:version" json:"version"`
	Title        string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Content      string    `gorm:"column:content;type:mediumtext" json:"content"`
	EditedBy     uint64    `gorm:"column:edited_by" json:"edited_by"`
	EditedByName string    `gorm:"column:edited_by_name;type:varchar(100)" json:"edited_by_name"`
	EditedAt     time.Time `gorm:"column:edited_at;autoCreateTime" json:"edited_at"`
}

func (ContentRevision) TableName() string { return "v2_content_revisions" }

// PostMeta represents post metadata for plugins
type PostMeta struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    uint64    `gorm:"column:post_id;index:idx_post_meta_key,priority:1" json:"post_id"`
	Namespace string    `gorm:"column:namespace;type:varchar(64);index:idx_post_meta_key,priority:2" json:"namespace"`
	MetaKey   string    `gorm:"column:meta_key;type:varchar(128);index:idx_post_meta_key,priority:3" json:"meta_key"`
	MetaValue *string   `gorm:"column:meta_value;type:json" json:"meta_value,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PostMeta) TableName() string { return "v2_post_meta" }
