package publishedby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/repository"
)

// Meta field holding the publisher's user id
const (
	MetaNamespace = "published-by"
	MetaKey       = "published_by"
)

// Store reads and writes the publisher record on top of the host post meta storage.
// A missing record and a stored 0 are both reported as 0.
type Store struct {
	meta repository.PostMetaRepository
}

// NewStore creates a Store
func NewStore(meta repository.PostMetaRepository) *Store {
	return &Store{meta: meta}
}

// PublisherID 기록된 발행자 ID, 없으면 0
func (s *Store) PublisherID(ctx context.Context, postID uint64) (uint64, error) {
	return s.readID(ctx, postID, MetaNamespace, MetaKey)
}

// SetPublisherID 발행자 ID 기록 (덮어씀)
func (s *Store) SetPublisherID(ctx context.Context, postID, userID uint64) error {
	return s.meta.Set(ctx, postID, MetaNamespace, MetaKey, userID)
}

// LastEditor 호스트가 기록한 마지막 수정자 ID, 없으면 0
func (s *Store) LastEditor(ctx context.Context, postID uint64) (uint64, error) {
	return s.readID(ctx, postID, domain.MetaNamespaceCore, domain.MetaKeyEditLast)
}

func (s *Store) readID(ctx context.Context, postID uint64, namespace, key string) (uint64, error) {
	raw, err := s.meta.GetRaw(ctx, postID, namespace, key)
	if errors.Is(err, common.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read meta %s/%s post=%d: %w", namespace, key, postID, err)
	}

	// float64 변환 없이 json.Number 로 읽어 큰 ID도 정확히 유지
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		// 비정상 값은 absint 와 같이 0
		return 0, nil
	}
	return absint(value), nil
}

// Absint meta Sanitize 콜백: 음이 아닌 정수로 정규화
func Absint(value interface{}) (interface{}, error) {
	return absint(value), nil
}

func absint(value interface{}) uint64 {
	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return absInt64(int64(v))
	case int32:
		return absInt64(int64(v))
	case int64:
		return absInt64(v)
	case uint:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	case float32:
		return absFloat(float64(v))
	case float64:
		return absFloat(v)
	case json.Number:
		return absNumber(v)
	case string:
		return absString(v)
	default:
		return 0
	}
}

func absInt64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// absFloat uint64 범위를 벗어나면 0
func absFloat(v float64) uint64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Abs(math.Trunc(v))
	if v >= maxUint64Float {
		return 0
	}
	return uint64(v)
}

// 2^64, float64로 정확히 표현됨
const maxUint64Float = float64(1 << 64)

// absNumber 정수 표기는 그대로, 지수/소수 표기는 float 경로
func absNumber(n json.Number) uint64 {
	s := strings.TrimPrefix(n.String(), "-")
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return absFloat(f)
}

// absString 앞쪽 정수 부분만 사용 ("12abc" → 12)
func absString(s string) uint64 {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
