package database

import (
	"fmt"

	"stockpanel/src/database/migrations"
	"stockpanel/src/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MainDB is the read/write connection used for symbols, state and positions.
var MainDB *gorm.DB

// InitMainDB opens the main connection. The schema is owned by the scraping
// scripts, so migrations only run when DB_AUTO_MIGRATE is set.
func InitMainDB() error {
	config := GetConfig()

	db, err := open(config.DatabaseURLMain, config)
	if err != nil {
		return fmt.Errorf("failed to connect to MainDB: %w", err)
	}

	// Assign to the global variable only after a successful connection.
	MainDB = db

	logrus.Info("[database] MainDB connection established")

	if config.AutoMigrate {
		if err := Migrate(MainDB); err != nil {
			return err
		}
	}

	return nil
}

// Migrate creates the stock tables when missing and runs the data migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.StockSymbol{},
		&model.StockState{},
		&model.StockPosition{},
		&model.StockPriceReal{},
		&migrations.AppliedMigration{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run data migrations: %w", err)
	}

	logrus.Info("[database] migrations completed")

	return nil
}

// Close releases the pools of both connections.
func Close() {
	for _, db := range []*gorm.DB{ReadOnlyDB, MainDB} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
