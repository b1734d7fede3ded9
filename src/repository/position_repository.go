package repository

import (
	"context"
	"fmt"

	"stockpanel/src/database"
	"stockpanel/src/model"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const listPositionsBySymbolSQL = `SELECT "id", "idSymbol", "type", "amount", "price", "shares", "timestamp" ` +
	`FROM "tStockPositions" ` +
	`WHERE "idSymbol" = (SELECT "id" FROM "tStockSymbols" WHERE "Symbol" = ?) ` +
	`ORDER BY "timestamp" ASC`

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository() *PositionRepository {
	logger.WithField("component", "PositionRepository").
		Info("Creating new PositionRepository with MainDB")

	return &PositionRepository{
		db: database.MainDB,
	}
}

func NewPositionRepositoryWithDB(db *gorm.DB) *PositionRepository {
	return &PositionRepository{
		db: db,
	}
}

// ListBySymbol returns the transaction history of a ticker, oldest first.
func (r *PositionRepository) ListBySymbol(ctx context.Context, symbol string) ([]model.StockPosition, error) {
	var rows []model.StockPosition
	if err := r.db.WithContext(ctx).Raw(listPositionsBySymbolSQL, symbol).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list positions for %s: %w", symbol, err)
	}
	if rows == nil {
		rows = []model.StockPosition{}
	}
	return rows, nil
}

// Create inserts a transaction and fills in its generated id.
func (r *PositionRepository) Create(ctx context.Context, position *model.StockPosition) error {
	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		return fmt.Errorf("insert position: %w", err)
	}

	logger.WithFields(logger.Fields{
		"id":       position.ID,
		"idSymbol": position.IDSymbol,
		"type":     position.Type,
	}).Info("Transaction added")

	return nil
}
