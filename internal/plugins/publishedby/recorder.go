package publishedby

import (
	"context"

	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/pkg/auth"
)

// Recorder stores the acting user when an item enters the publish status
type Recorder struct {
	store *Store
	log   plugin.Logger
}

// NewRecorder creates a Recorder
func NewRecorder(store *Store, log plugin.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record 발행 전이일 때 요청 사용자를 기록. 기록했으면 true
func (r *Recorder) Record(ctx context.Context, newStatus, oldStatus string, postID uint64) (bool, error) {
	if newStatus == oldStatus || newStatus != domain.StatusPublish {
		return false, nil
	}

	actor := auth.UserID(ctx)
	if actor == 0 {
		recordsTotal.WithLabelValues(recordNoActor).Inc()
		return false, nil
	}

	if err := r.store.SetPublisherID(ctx, postID, actor); err != nil {
		recordsTotal.WithLabelValues(recordFailed).Inc()
		return false, err
	}
	recordsTotal.WithLabelValues(recordWritten).Inc()
	return true, nil
}

// onTransition HookPostTransitionStatus 핸들러. 쓰기 실패는 로그만 남긴다
func (r *Recorder) onTransition(hc *plugin.HookContext) error {
	post, ok := hc.Input["post"].(*domain.Post)
	if !ok || post == nil {
		return nil
	}
	newStatus, _ := hc.Input["new_status"].(string)
	oldStatus, _ := hc.Input["old_status"].(string)

	written, err := r.Record(hc.Context, newStatus, oldStatus, post.ID)
	if err != nil {
		r.log.Error("record publisher failed post=%d: %v", post.ID, err)
		return nil
	}
	if written {
		r.log.Debug("recorded publisher post=%d user=%d", post.ID, auth.UserID(hc.Context))
	}
	return nil
}
