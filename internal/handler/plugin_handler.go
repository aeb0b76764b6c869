package handler

import (
	"net/http"
	"strconv"

	"github.com/damoang/angple-published-by/internal/middleware"
	"github.com/damoang/angple-published-by/internal/plugin"
	storedomain "github.com/damoang/angple-published-by/internal/pluginstore/domain"
	storeservice "github.com/damoang/angple-published-by/internal/pluginstore/service"
	"github.com/gin-gonic/gin"
)

// PluginHandler 관리자 플러그인 관리
type PluginHandler struct {
	manager    *plugin.Manager
	settingSvc *storeservice.SettingService
}

// NewPluginHandler creates a new PluginHandler
func NewPluginHandler(manager *plugin.Manager, settingSvc *storeservice.SettingService) *PluginHandler {
	return &PluginHandler{manager: manager, settingSvc: settingSvc}
}

// HealthCheck godoc
// @Summary      전체 플러그인 헬스 체크
// @Tags         admin-plugins
// @Produce      json
// @Success      200  {object}  map[string][]plugin.PluginHealth
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/health [get]
func (h *PluginHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.manager.CheckAllHealth()})
}

// HealthCheckSingle godoc
// @Summary      단일 플러그인 헬스 체크
// @Tags         admin-plugins
// @Produce      json
// @Param        name  path      string  true  "플러그인 이름 (예: published-by)"
// @Success      200   {object}  map[string]plugin.PluginHealth
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/health [get]
func (h *PluginHandler) HealthCheckSingle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.manager.CheckHealth(c.Param("name"))})
}

// EnablePlugin godoc
// @Summary      플러그인 활성화
// @Tags         admin-plugins
// @Produce      json
// @Param        name  path      string  true  "플러그인 이름"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/enable [post]
func (h *PluginHandler) EnablePlugin(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.Enable(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "ENABLE_ERROR", "message": err.Error()},
		})
		return
	}

	h.settingSvc.RecordEvent(c.Request.Context(), name, storedomain.EventEnabled, middleware.GetUserID(c), nil)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "플러그인이 활성화되었습니다", "plugin": name}})
}

// DisablePlugin godoc
// @Summary      플러그인 비활성화
// @Description  Hook과 meta 선언을 해제합니다. 플러그인 라우트는 404를 반환합니다
// @Tags         admin-plugins
// @Produce      json
// @Param        name  path      string  true  "플러그인 이름"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/disable [post]
func (h *PluginHandler) DisablePlugin(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.Disable(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "DISABLE_ERROR", "message": err.Error()},
		})
		return
	}

	h.settingSvc.RecordEvent(c.Request.Context(), name, storedomain.EventDisabled, middleware.GetUserID(c), nil)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "플러그인이 비활성화되었습니다", "plugin": name}})
}

// GetSettings godoc
// @Summary      플러그인 설정 조회
// @Description  스키마와 현재 값(저장값 > 설정 파일 > 기본값)을 함께 반환합니다
// @Tags         admin-plugins
// @Produce      json
// @Param        name  path      string  true  "플러그인 이름"
// @Success      200   {object}  map[string][]service.SettingWithSchema
// @Failure      404   {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/settings [get]
func (h *PluginHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingSvc.GetSettings(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "SETTINGS_ERROR", "message": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// SaveSettings godoc
// @Summary      플러그인 설정 저장
// @Description  모든 값을 검증한 뒤 저장하고 플러그인을 재초기화합니다
// @Tags         admin-plugins
// @Accept       json
// @Produce      json
// @Param        name     path      string                  true  "플러그인 이름"
// @Param        request  body      map[string]interface{}  true  "설정 키/값 (예: visible_statuses, skip_guessing)"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/settings [put]
func (h *PluginHandler) SaveSettings(c *gin.Context) {
	name := c.Param("name")

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_REQUEST", "message": "잘못된 요청 형식입니다"},
		})
		return
	}

	// validator는 string 기반
	req := make(map[string]string, len(raw))
	for k, v := range raw {
		req[k] = storeservice.FormatSettingValue(v)
	}

	if err := h.settingSvc.SaveSettings(c.Request.Context(), name, req, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "SAVE_ERROR", "message": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "설정이 저장되었습니다", "plugin": name}})
}

// ResetSettings godoc
// @Summary      플러그인 설정 초기화
// @Description  저장된 설정을 삭제하고 설정 파일/기본값으로 재초기화합니다
// @Tags         admin-plugins
// @Produce      json
// @Param        name  path      string  true  "플러그인 이름"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/settings [delete]
func (h *PluginHandler) ResetSettings(c *gin.Context) {
	name := c.Param("name")
	if err := h.settingSvc.ResetSettings(c.Request.Context(), name, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "RESET_ERROR", "message": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "설정이 초기화되었습니다", "plugin": name}})
}

// GetEvents godoc
// @Summary      플러그인 이벤트 로그
// @Tags         admin-plugins
// @Produce      json
// @Param        name   path      string  true   "플러그인 이름"
// @Param        limit  query     int     false  "최대 개수"  default(50)
// @Success      200    {object}  map[string][]domain.PluginEvent
// @Failure      500    {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v2/admin/plugins/{name}/events [get]
func (h *PluginHandler) GetEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.settingSvc.Events(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "EVENTS_ERROR", "message": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}
