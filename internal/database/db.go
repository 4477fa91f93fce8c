package database

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vf552639/fastpanel/internal/domains"
	"github.com/vf552639/fastpanel/internal/servers"
	"github.com/vf552639/fastpanel/internal/settings"
)

func Init(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})

	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&servers.Server{})

	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&domains.Domain{})

	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&settings.Setting{})

	if err != nil {
		return nil, err
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()

	if err != nil {
		return err
	}

	return sqlDB.Close()
}
