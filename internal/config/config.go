package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/damoang/angple-published-by/pkg/logger"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 설정
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	CORS        CORSConfig        `yaml:"cors"`
	Admin       AdminConfig       `yaml:"admin"`
	PublishedBy PublishedByConfig `yaml:"published_by"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port int    `yaml:"port" validate:"required,min=1,max=65535"`
	Env  string `yaml:"env" validate:"omitempty,oneof=local dev development staging production"`
}

// DatabaseConfig DB 설정 (driver: mysql | sqlite)
type DatabaseConfig struct {
	Driver          string `yaml:"driver" validate:"required,oneof=mysql sqlite"`
	Host            string `yaml:"host" validate:"required_if=Driver mysql"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname" validate:"required"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// RedisConfig Redis 설정 (Host 비어있으면 캐시 비활성화)
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig JWT 설정
type JWTConfig struct {
	Secret    string `yaml:"secret" validate:"required,min=16"`
	ExpiresIn int    `yaml:"expires_in" validate:"min=0"` // seconds
	RefreshIn int    `yaml:"refresh_in" validate:"min=0"` // seconds
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// AdminConfig 관리자 화면 설정
type AdminConfig struct {
	BaseURL string `yaml:"base_url" validate:"required"`
}

// PublishedByConfig published-by 플러그인 기본값
type PublishedByConfig struct {
	Enabled         bool     `yaml:"enabled"`
	VisibleStatuses []string `yaml:"visible_statuses"`
	SkipGuessing    bool     `yaml:"skip_guessing"`
}

// Default returns a configuration usable for local development
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8082, Env: "local"},
		Database: DatabaseConfig{Driver: "sqlite", DBName: "published-by.db", MaxIdleConns: 10, MaxOpenConns: 100, ConnMaxLifetime: 3600},
		Redis:    RedisConfig{Port: 6379, PoolSize: 10},
		JWT:      JWTConfig{Secret: "local-development-secret", ExpiresIn: 900, RefreshIn: 604800},
		CORS:     CORSConfig{AllowOrigins: "http://localhost:3000"},
		Admin:    AdminConfig{BaseURL: "/admin"},
		PublishedBy: PublishedByConfig{
			Enabled:         true,
			VisibleStatuses: []string{"private", "publish"},
		},
	}
}

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
	setString(&cfg.Admin.BaseURL, "ADMIN_BASE_URL")

	if v := os.Getenv("PUBLISHED_BY_VISIBLE_STATUSES"); v != "" {
		cfg.PublishedBy.VisibleStatuses = splitAndTrim(v, ",")
	}
	if v := os.Getenv("PUBLISHED_BY_SKIP_GUESSING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PublishedBy.SkipGuessing = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDevelopment 개발 환경 여부
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// DSN returns the driver-specific connection string
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.DBName
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// LogResolved 최종 설정값 로깅 (비밀값 제외)
func LogResolved(cfg *Config) {
	logger.Info("config: env=%s port=%d db=%s/%s redis=%q admin=%s",
		cfg.Server.Env, cfg.Server.Port, cfg.Database.Driver, cfg.Database.DBName,
		cfg.Redis.Host, cfg.Admin.BaseURL)
	logger.Info("config: published_by enabled=%t visible_statuses=%v skip_guessing=%t",
		cfg.PublishedBy.Enabled, cfg.PublishedBy.VisibleStatuses, cfg.PublishedBy.SkipGuessing)
}
