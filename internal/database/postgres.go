package database

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamcollab-api/internal/config"
	"teamcollab-api/internal/model"
)

var (
	globalDB *gorm.DB
	dbMu     sync.RWMutex
)

// GetDB returns the current database connection, or nil while the async
// retry loop is still dialing.
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return globalDB
}

// SetDB installs the shared connection. The async retry loop calls it when
// a late-starting database finally comes up, so repositories built before
// the connect resolve a live handle on their next call.
func SetDB(db *gorm.DB) {
	dbMu.Lock()
	defer dbMu.Unlock()
	globalDB = db
}

// New opens the PostgreSQL connection, tunes the pool and runs migrations.
func New(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is not configured")
	}

	logLevel := logger.Silent
	if cfg.Server.Env == "dev" || cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	SetDB(db)
	return db, nil
}

// NewAsync keeps retrying the connection in the background so the process
// can come up before the database does.
func NewAsync(cfg *config.Config, retryInterval time.Duration) {
	go func() {
		for {
			if GetDB() != nil {
				return
			}
			if _, err := New(cfg); err != nil {
				log.Printf("database connection failed, retrying in %v: %v", retryInterval, err)
				time.Sleep(retryInterval)
				continue
			}
			return
		}
	}()
}

// AutoMigrate creates or updates the users, messages and tasks tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.Task{},
	)
}
