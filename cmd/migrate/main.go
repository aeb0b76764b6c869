package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/damoang/angple-published-by/internal/config"
	"github.com/damoang/angple-published-by/internal/migration"
	"github.com/damoang/angple-published-by/pkg/database"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", config.Path(), "config file path")
	verify := flag.Bool("verify", false, "print row counts per table")
	rollback := flag.Bool("rollback", false, "drop all content tables")
	seedAdmin := flag.Bool("seed-admin", false, "create an admin account when the users table is empty")
	adminUser := flag.String("admin-user", os.Getenv("ADMIN_USERNAME"), "admin username for -seed-admin")
	adminEmail := flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "admin email for -seed-admin")
	adminNick := flag.String("admin-nickname", "관리자", "admin nickname for -seed-admin")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if files := config.LoadDotEnv("."); len(files) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := database.Open(database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		LogLevel:        logLevel,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if *rollback {
		if err := migration.Rollback(db); err != nil {
			log.Fatalf("[rollback] FAILED: %v", err)
		}
		log.Println("[rollback] All content tables dropped")
		return
	}

	start := time.Now()
	if err := migration.Run(db); err != nil {
		log.Fatalf("[migrate] FAILED: %v", err)
	}
	log.Printf("[migrate] Schema up to date in %v", time.Since(start))

	if *seedAdmin {
		created, err := migration.SeedAdmin(db, migration.AdminSeed{
			Username: *adminUser,
			Email:    *adminEmail,
			Password: os.Getenv("ADMIN_PASSWORD"),
			Nickname: *adminNick,
		})
		if err != nil {
			log.Fatalf("[seed] FAILED: %v", err)
		}
		if created {
			log.Printf("[seed] Admin account %q created", *adminUser)
		} else {
			log.Println("[seed] Users already exist, skipped")
		}
	}

	if *verify {
		counts, err := migration.Verify(db)
		if err != nil {
			log.Fatalf("[verify] FAILED: %v", err)
		}
		for _, c := range counts {
			log.Printf("[verify] %-24s %d rows", c.Table, c.Rows)
		}
	}
}
