package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/damoang/angple-published-by/internal/config"
	"github.com/damoang/angple-published-by/internal/handler"
	"github.com/damoang/angple-published-by/internal/middleware"
	"github.com/damoang/angple-published-by/internal/migration"
	"github.com/damoang/angple-published-by/internal/plugin"
	"github.com/damoang/angple-published-by/internal/plugins/publishedby"
	storerepo "github.com/damoang/angple-published-by/internal/pluginstore/repository"
	storeservice "github.com/damoang/angple-published-by/internal/pluginstore/service"
	"github.com/damoang/angple-published-by/internal/repository"
	"github.com/damoang/angple-published-by/internal/routes"
	"github.com/damoang/angple-published-by/internal/service"
	pkgcache "github.com/damoang/angple-published-by/pkg/cache"
	"github.com/damoang/angple-published-by/pkg/database"
	"github.com/damoang/angple-published-by/pkg/i18n"
	"github.com/damoang/angple-published-by/pkg/jwt"
	pkglogger "github.com/damoang/angple-published-by/pkg/logger"
	pkgredis "github.com/damoang/angple-published-by/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Angple Published-By API
// @version         1.2
// @description     게시글/페이지 발행자 기록 및 표시 API
//
// @license.name    GPL-2.0
//
// @host            localhost:8082
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv(".")

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := config.Path()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// DB 연결 (게시글 저장소이므로 필수)
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis 연결 (선택)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}
	cacheService := pkgcache.NewService(redisClient)

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// i18n Bundle
	i18nBundle := i18n.NewBundle(i18n.LocaleKo)
	i18nBundle.LoadAll(i18n.DefaultMessages())
	if _, err := os.Stat("i18n"); err == nil {
		if err := i18nBundle.LoadDir("i18n"); err != nil {
			pkglogger.Warn("i18n LoadDir failed: %v", err)
		}
	}

	// Gin 라우터 생성
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.I18n())

	// Plugin Manager
	pluginManager := plugin.NewManager(db, redisClient, pkglogger.NewComponent("plugin"))
	pluginManager.SetRouter(router)
	if err := pluginManager.RegisterFactories(); err != nil {
		log.Fatalf("Failed to register plugins: %v", err)
	}

	// 플러그인 설정: 관리자 저장값 > 설정 파일
	settingService := storeservice.NewSettingService(
		storerepo.NewSettingRepository(db),
		storerepo.NewEventRepository(db),
		pluginManager,
	)
	settingService.SetBase(publishedby.Name, map[string]interface{}{
		"visible_statuses": cfg.PublishedBy.VisibleStatuses,
		"skip_guessing":    cfg.PublishedBy.SkipGuessing,
		"admin_base_url":   cfg.Admin.BaseURL,
	})
	if err := settingService.Apply(context.Background(), publishedby.Name); err != nil {
		pkglogger.Warn("Failed to load stored settings for %s: %v", publishedby.Name, err)
	}
	if cfg.PublishedBy.Enabled {
		if err := pluginManager.Enable(publishedby.Name); err != nil {
			pkglogger.Error("Failed to enable %s: %v", publishedby.Name, err)
		}
	}

	// Repositories
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	// 플러그인과 같은 캐시 키를 쓰므로 쓰기 시 무효화가 공유됨
	metaRepo := repository.NewCachedPostMetaRepository(repository.NewPostMetaRepository(db), cacheService, nil)

	// Services
	postService := service.NewPostService(postRepo, revisionRepo, metaRepo, userRepo, pluginManager.Hooks(), pluginManager.Meta())
	authService := service.NewAuthService(userRepo, jwtManager)

	// Handlers
	handlers := routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Post:    handler.NewPostHandler(postService),
		Admin:   handler.NewAdminHandler(postService, userRepo, pluginManager.Hooks(), i18nBundle),
		Plugins: handler.NewPluginHandler(pluginManager, settingService),
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))


	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if err := database.Ping(db); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = err.Error()
		}
		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": "angple-published-by",
			"db":      dbStatus,
			"cache":   cacheService.IsAvailable(),
			"plugins": pluginManager.CheckAllHealth(),
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, handlers, jwtManager)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reportDBStats(ctx, db)

	// 서버 시작
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server shutdown error: %v", err)
	}
	_ = pluginManager.Shutdown()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	pkglogger.Info("Server stopped")
}

// initDB 설정의 driver(mysql | sqlite)로 DB 연결
func initDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}
	return database.Open(database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		LogLevel:        level,
	})
}

func corsConfig(allowOrigins string) cors.Config {
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}

	origins := []string{}
	for _, o := range strings.Split(allowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400 * time.Second,
	}
}

// reportDBStats db_connections_open 게이지 주기적 갱신
func reportDBStats(ctx context.Context, db *gorm.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		middleware.SetDBConnectionsOpen(float64(database.OpenConnections(db)))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
