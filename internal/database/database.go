package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database and sizes its connection pool.
func Connect(ctx context.Context, cfg config.DBConfig, production bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}

	switch {
	case cfg.Driver == config.DriverSQLite:
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	case production:
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(200)
		sqlDB.SetConnMaxLifetime(time.Hour)
	default:
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	clog.FromContext(ctx).Infof("connected to %s database", cfg.Driver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.RubricEntry{}, &model.Evaluation{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
