package routes

import (
	"github.com/damoang/angple-published-by/internal/handler"
	"github.com/damoang/angple-published-by/internal/middleware"
	"github.com/damoang/angple-published-by/pkg/jwt"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers route targets
type Handlers struct {
	Auth    *handler.AuthHandler
	Post    *handler.PostHandler
	Admin   *handler.AdminHandler
	Plugins *handler.PluginHandler
}

// Setup configures all API routes
func Setup(router gin.IRouter, h Handlers, jwtManager *jwt.Manager) {
	// Swagger UI (handler godoc 주석 기반)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v2")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)

	// Posts: 조회는 공개, 작성/수정/발행은 인증 필요
	posts := api.Group("/posts")
	posts.GET("/:id", middleware.OptionalJWTAuth(jwtManager), h.Post.GetPost)
	posts.POST("", middleware.JWTAuth(jwtManager), h.Post.CreatePost)
	posts.PUT("/:id", middleware.JWTAuth(jwtManager), h.Post.UpdatePost)
	posts.POST("/:id/publish", middleware.JWTAuth(jwtManager), h.Post.PublishPost)

	// Admin screens (관리자)
	admin := api.Group("/admin", middleware.JWTAuth(jwtManager), middleware.RequireAdmin())
	admin.GET("/posts", h.Admin.ListPosts)
	admin.GET("/posts/:id/edit", h.Admin.EditPost)

	if h.Plugins != nil {
		plugins := admin.Group("/plugins")
		plugins.GET("/health", h.Plugins.HealthCheck)
		plugins.GET("/:name/health", h.Plugins.HealthCheckSingle)
		plugins.POST("/:name/enable", h.Plugins.EnablePlugin)
		plugins.POST("/:name/disable", h.Plugins.DisablePlugin)
		plugins.GET("/:name/settings", h.Plugins.GetSettings)
		plugins.PUT("/:name/settings", h.Plugins.SaveSettings)
		plugins.DELETE("/:name/settings", h.Plugins.ResetSettings)
		plugins.GET("/:name/events", h.Plugins.GetEvents)
	}
}
