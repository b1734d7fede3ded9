package database

import (
	"fmt"

	"stockpanel/src/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReadOnlyDB serves price sample reads. The database user for this connection
// only needs SELECT on tStock_PricesReal and tStockSymbols.
var ReadOnlyDB *gorm.DB

// InitReadOnlyDB opens the read-only connection, or reuses MainDB when
// DATABASE_URL_READONLY is not set. It must run after InitMainDB.
func InitReadOnlyDB() error {
	config := GetConfig()
	if config.DatabaseURLReadOnly == "" {
		ReadOnlyDB = MainDB
		logrus.Info("[ReadOnlyDB] DATABASE_URL_READONLY not set, reusing MainDB")
		return nil
	}

	db, err := open(config.DatabaseURLReadOnly, config)
	if err != nil {
		return fmt.Errorf("failed to connect to ReadOnlyDB: %w", err)
	}

	var dbName, schema string
	if err := db.
		Raw("SELECT current_database(), current_schema()").
		Row().
		Scan(&dbName, &schema); err != nil {
		return fmt.Errorf("failed to query current db/schema on ReadOnlyDB: %w", err)
	}

	var count int64
	if err := db.Model(&model.StockPriceReal{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to access tStock_PricesReal: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"dbName": dbName,
		"schema": schema,
		"count":  count,
	}).Info("[ReadOnlyDB] connected, tStock_PricesReal reachable")

	ReadOnlyDB = db

	return nil
}
