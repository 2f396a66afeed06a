package client

import (
	"fmt"
	"time"

	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/gentlyventures/harboragent/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDBClient(dbCfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbCfg.Driver {
	case "mysql":
		dialector = mysql.Open(dbCfg.URL)
	case "sqlite", "":
		dialector = sqlite.Open(dbCfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.WebhookEvent{},
		&model.DownloadRecord{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}
