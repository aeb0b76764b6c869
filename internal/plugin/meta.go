package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MetaType 등록된 메타 값 타입
type MetaType string

const (
	MetaTypeInteger MetaType = "integer"
	MetaTypeString  MetaType = "string"
	MetaTypeBoolean MetaType = "boolean"
)

// MetaDefinition post meta 필드 선언
type MetaDefinition struct {
	Namespace   string
	Key         string // REST 응답의 meta 필드명
	Type        MetaType
	Description string
	Single      bool

	// Sanitize 저장/응답 전 값 정규화 (nil이면 그대로)
	Sanitize func(value interface{}) (interface{}, error)

	// AuthorizeWrite 공개 API를 통한 쓰기 허용 여부 (nil이면 거부)
	AuthorizeWrite func(ctx context.Context, postID uint64) bool

	// ShowInREST 구조화 API 응답에 포함 여부
	ShowInREST bool
}

type metaEntry struct {
	pluginName string
	def        MetaDefinition
}

// MetaRegistry post meta 선언 레지스트리 (thread-safe)
type MetaRegistry struct {
	entries map[string]metaEntry // key -> entry
	mu      sync.RWMutex
}

// NewMetaRegistry 생성자
func NewMetaRegistry() *MetaRegistry {
	return &MetaRegistry{entries: make(map[string]metaEntry)}
}

// Register meta 필드 등록. 같은 key를 다른 플러그인이 이미 등록했으면 에러
func (r *MetaRegistry) Register(pluginName string, def MetaDefinition) error {
	if def.Key == "" || def.Namespace == "" {
		return fmt.Errorf("meta definition requires namespace and key")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[def.Key]; ok && existing.pluginName != pluginName {
		return fmt.Errorf("meta key %s already registered by %s", def.Key, existing.pluginName)
	}
	r.entries[def.Key] = metaEntry{pluginName: pluginName, def: def}
	return nil
}

// Unregister 플러그인이 등록한 meta 필드 모두 해제
func (r *MetaRegistry) Unregister(pluginName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.entries {
		if e.pluginName == pluginName {
			delete(r.entries, key)
		}
	}
}

// Lookup key로 선언 조회
func (r *MetaRegistry) Lookup(key string) (MetaDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return e.def, ok
}

// Exists 등록 여부
func (r *MetaRegistry) Exists(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// RESTFields ShowInREST 필드를 key 순으로 반환
func (r *MetaRegistry) RESTFields() []MetaDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]MetaDefinition, 0, len(r.entries))
	for _, e := range r.entries {
		if e.def.ShowInREST {
			out = append(out, e.def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// CanWrite 공개 API 쓰기 허용 여부
func (d MetaDefinition) CanWrite(ctx context.Context, postID uint64) bool {
	if d.AuthorizeWrite == nil {
		return false
	}
	return d.AuthorizeWrite(ctx, postID)
}

// Clean Sanitize 적용
func (d MetaDefinition) Clean(value interface{}) (interface{}, error) {
	if d.Sanitize == nil {
		return value, nil
	}
	return d.Sanitize(value)
}

// DenyWrite AuthorizeWrite용: 항상 거부
func DenyWrite(_ context.Context, _ uint64) bool { return false }

// Zero 값이 저장되지 않았을 때 응답에 쓰는 타입별 기본값
func (d MetaDefinition) Zero() interface{} {
	switch d.Type {
	case MetaTypeInteger:
		return 0
	case MetaTypeBoolean:
		return false
	default:
		return ""
	}
}
