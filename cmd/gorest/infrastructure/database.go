package infrastructure

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gorest-users/internal/adapter/db/gormdb"
	"gorest-users/internal/config"
	"gorest-users/pkg/logger"
)

// NewDatabase opens the creation-time database with the configured driver
// and migrates its schema.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dialector = pgdriver.Open(cfg.DB.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen := cfg.DB.MaxOpenConns
	if cfg.DB.Driver == config.DriverSQLite {
		// One writer at a time avoids SQLITE_BUSY
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DB.ConnMaxIdleTime) * time.Second)

	if err := gormdb.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	l.Info("database connected",
		zap.String("driver", cfg.DB.Driver),
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
