package database

import (
	"fmt"
	"time"

	"quickclose-report/internal/config"
	"quickclose-report/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the reporting database named by cfg.
// The caller owns the handle and must release it with Close.
func NewDatabase(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close releases the connection held by db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates the tables the report reads from. It is only meant
// for local sqlite copies of the data; production tables are never touched.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Trade{}, &models.Account{}, &models.Customer{}, &models.Country{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// zapWriter routes gorm's log lines into zap.
type zapWriter struct {
	sugar *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.sugar.Debugf(format, args...)
}

func newGormLogger(log *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.Core().Enabled(zapcore.DebugLevel) {
		level = gormlogger.Info
	}

	return gormlogger.New(zapWriter{sugar: log.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             2 * time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
