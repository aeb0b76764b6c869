package migration

import (
	"errors"
	"fmt"

	"github.com/damoang/angple-published-by/internal/domain"
	storedomain "github.com/damoang/angple-published-by/internal/pluginstore/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models 마이그레이션 대상 모델 (생성 순서)
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Post{},
		&domain.ContentRevision{},
		&domain.PostMeta{},
		&storedomain.PluginSetting{},
		&storedomain.PluginEvent{},
	}
}

// Run executes AutoMigrate for the content and plugin tables.
// This is safe to run multiple times (AutoMigrate is idempotent).
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// AdminSeed 초기 관리자 계정
type AdminSeed struct {
	Username string
	Email    string
	Password string
	Nickname string
	Level    uint8
}

// ErrSeedIncomplete username/password 누락
var ErrSeedIncomplete = errors.New("admin seed requires username and password")

// SeedAdmin users 테이블이 비어있을 때만 관리자 계정을 생성합니다.
// 생성했으면 true.
func SeedAdmin(db *gorm.DB, seed AdminSeed) (bool, error) {
	if seed.Username == "" || seed.Password == "" {
		return false, ErrSeedIncomplete
	}

	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if seed.Email == "" {
		seed.Email = seed.Username + "@localhost"
	}
	if seed.Level == 0 {
		seed.Level = 10
	}

	admin := &domain.User{
		Username: seed.Username,
		Email:    seed.Email,
		Password: string(hash),
		Nickname: seed.Nickname,
		Level:    seed.Level,
		Status:   "active",
	}
	if err := db.Create(admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

// TableCount 테이블별 row 수
type TableCount struct {
	Table string
	Rows  int64
}

// Verify 각 테이블의 row 수를 반환합니다.
func Verify(db *gorm.DB) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(Models()))
	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", stmt.Schema.Table, err)
		}
		counts = append(counts, TableCount{Table: stmt.Schema.Table, Rows: n})
	}
	return counts, nil
}

// Rollback drops every content table (역순)
func Rollback(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return err
		}
	}
	return nil
}
