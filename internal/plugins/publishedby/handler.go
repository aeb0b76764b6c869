package publishedby

import (
	"net/http"
	"strconv"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/gin-gonic/gin"
)

// handler 재초기화 후에도 최신 구성 요소를 쓰도록 플러그인을 참조
type handler struct {
	plugin *Plugin
}

// publisherResponse GET /api/plugins/published-by/posts/:id
type publisherResponse struct {
	PostID uint64 `json:"post_id"`
	Result
	PublisherURL string `json:"publisher_url"`
}

// GetPublisher godoc
// @Summary      게시글 발행자 조회
// @Description  기록된 발행자 또는 추정 발행자를 판별합니다. guessed 는 기록이 아닌 추정일 때 true
// @Tags         published-by
// @Produce      json
// @Param        id   path      int  true  "게시글 ID"
// @Success      200  {object}  common.V2Response{data=publisherResponse}
// @Failure      400  {object}  common.V2Response
// @Failure      404  {object}  common.V2Response  "플러그인 비활성"
// @Router       /api/plugins/published-by/posts/{id} [get]
func (h *handler) GetPublisher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid post id", err)
		return
	}

	// 요청 하나는 한 시점의 구성 요소만 사용
	rt := h.plugin.rt.Load()
	if rt == nil {
		common.V2ErrorResponse(c, http.StatusServiceUnavailable, "plugin is not initialized", nil)
		return
	}

	res, err := rt.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		common.V2FromError(c, "Failed to resolve publisher", err)
		return
	}

	common.V2Success(c, publisherResponse{
		PostID:       id,
		Result:       res,
		PublisherURL: rt.renderer.UserURL(res.PublisherID),
	})
}
