package repository

import (
	"context"
	"fmt"

	"stockpanel/src/database"
	"stockpanel/src/model"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const latestPriceSQL = `SELECT "close", "updated" ` +
	`FROM "tStock_PricesReal" ` +
	`WHERE "idSymbol" = (SELECT "id" FROM "tStockSymbols" WHERE "Symbol" = ?) ` +
	`ORDER BY "updated" DESC ` +
	`LIMIT 1`

type PriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository reads through database.ReadOnlyDB.
func NewPriceRepository() *PriceRepository {
	logger.WithField("component", "PriceRepository").
		Info("Creating new PriceRepository with ReadOnlyDB")

	return &PriceRepository{
		db: database.ReadOnlyDB,
	}
}

func NewPriceRepositoryWithDB(db *gorm.DB) *PriceRepository {
	return &PriceRepository{
		db: db,
	}
}

// Latest returns the most recent price sample of a ticker, or nil when none
// has been recorded.
func (r *PriceRepository) Latest(ctx context.Context, symbol string) (*model.PriceSample, error) {
	var rows []model.PriceSample
	if err := r.db.WithContext(ctx).Raw(latestPriceSQL, symbol).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("latest price for %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
