package handler

import (
	"errors"
	"net/http"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest 로그인 요청
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      로그인
// @Description  아이디/비밀번호로 로그인하여 JWT 액세스 토큰을 발급받습니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "로그인 요청"
// @Success      200  {object}  common.V2Response{data=service.LoginResponse}
// @Failure      400  {object}  common.V2Response
// @Failure      401  {object}  common.V2Response
// @Failure      403  {object}  common.V2Response
// @Router       /api/v2/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "아이디와 비밀번호를 입력해주세요", err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountBanned), errors.Is(err, service.ErrAccountInactive):
			common.V2ErrorResponse(c, http.StatusForbidden, "사용할 수 없는 계정입니다", err)
		default:
			common.V2FromError(c, "로그인 실패", err)
		}
		return
	}
	common.V2Success(c, resp)
}
