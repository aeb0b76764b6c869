package middleware

import (
	"net/http"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/gin-gonic/gin"
)

// AdminLevel 관리자 화면 최소 레벨
const AdminLevel = 10

// RequireAdmin checks that the authenticated user has admin level (>= 10)
func RequireAdmin() gin.HandlerFunc {
	return RequireLevel(AdminLevel)
}

// RequireLevel 최소 회원 레벨 검사
func RequireLevel(minLevel int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserLevel(c) < minLevel {
			common.V2ErrorResponse(c, http.StatusForbidden, "관리자 권한이 필요합니다", common.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
