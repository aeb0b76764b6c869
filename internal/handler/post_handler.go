package handler

import (
	"net/http"
	"strconv"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/service"
	"github.com/gin-gonic/gin"
)

// PostHandler REST post endpoints
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// GetPost godoc
// @Summary      게시글 조회
// @Description  게시글과 REST 공개 메타(published_by 등)를 함께 조회합니다
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "게시글 ID"
// @Success      200  {object}  common.V2Response{data=service.PostWithMeta}
// @Failure      400  {object}  common.V2Response
// @Failure      404  {object}  common.V2Response
// @Router       /api/v2/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetWithMeta(c.Request.Context(), id)
	if err != nil {
		common.V2FromError(c, "게시글 조회 실패", err)
		return
	}
	common.V2Success(c, post)
}

// CreatePost godoc
// @Summary      게시글 작성
// @Description  게시글을 작성합니다. status 가 publish 이면 요청 사용자가 발행자로 기록됩니다 (인증 필요)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request  body      service.CreatePostRequest  true  "게시글 작성 요청"
// @Success      201  {object}  common.V2Response{data=domain.Post}
// @Failure      400  {object}  common.V2Response
// @Failure      401  {object}  common.V2Response
// @Failure      403  {object}  common.V2Response  "쓰기 불가 메타 포함"
// @Security     BearerAuth
// @Router       /api/v2/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다", err)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), &req)
	if err != nil {
		common.V2FromError(c, "게시글 작성 실패", err)
		return
	}
	common.V2Created(c, post)
}

// UpdatePost godoc
// @Summary      게시글 수정
// @Description  게시글을 수정하고 리비전을 남깁니다. 상태 변경 없이 저장하면 기존 발행자는 유지됩니다 (인증 필요)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "게시글 ID"
// @Param        request  body      service.UpdatePostRequest  true  "게시글 수정 요청"
// @Success      200  {object}  common.V2Response{data=domain.Post}
// @Failure      400  {object}  common.V2Response
// @Failure      401  {object}  common.V2Response
// @Failure      403  {object}  common.V2Response
// @Failure      404  {object}  common.V2Response
// @Security     BearerAuth
// @Router       /api/v2/posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req service.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다", err)
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.V2FromError(c, "게시글 수정 실패", err)
		return
	}
	common.V2Success(c, post)
}

// PublishPost godoc
// @Summary      게시글 발행
// @Description  게시글을 publish 상태로 전환하고 요청 사용자를 발행자로 기록합니다 (인증 필요)
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "게시글 ID"
// @Success      200  {object}  common.V2Response{data=domain.Post}
// @Failure      400  {object}  common.V2Response
// @Failure      401  {object}  common.V2Response
// @Failure      404  {object}  common.V2Response
// @Security     BearerAuth
// @Router       /api/v2/posts/{id}/publish [post]
func (h *PostHandler) PublishPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.postService.Publish(c.Request.Context(), id)
	if err != nil {
		common.V2FromError(c, "게시글 발행 실패", err)
		return
	}
	common.V2Success(c, post)
}

func postID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		common.V2ErrorResponse(c, http.StatusBadRequest, "잘못된 게시글 ID", err)
		return 0, false
	}
	return id, true
}
