package repository

import (
	"context"
	"errors"
	"fmt"

	"stockpanel/src/database"
	"stockpanel/src/model"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	listStockStateSQL = `SELECT s."Symbol", t."buy", t."shouldSell", t."sell", t."invested", t."shares", t."maxValue" ` +
		`FROM "tStockState" t ` +
		`JOIN "tStockSymbols" s ON t."idSymbol" = s.id ` +
		`ORDER BY s."Symbol" ASC`

	listOpenStockStateSQL = `SELECT s."Symbol", s.id AS symbol_id, t."invested", t."shares", t."lastAction", t."buy", t."sell", t."shouldSell" ` +
		`FROM "tStockState" t ` +
		`JOIN "tStockSymbols" s ON t."idSymbol" = s.id ` +
		`WHERE t."status" = ?`
)

type StockStateRepository struct {
	db *gorm.DB
}

// NewStockStateRepository creates a repository bound to database.MainDB.
func NewStockStateRepository() *StockStateRepository {
	logger.WithField("component", "StockStateRepository").
		Info("Creating new StockStateRepository with MainDB")

	return &StockStateRepository{
		db: database.MainDB,
	}
}

func NewStockStateRepositoryWithDB(db *gorm.DB) *StockStateRepository {
	return &StockStateRepository{
		db: db,
	}
}

// ListWithSymbols returns every state row joined with its ticker.
func (r *StockStateRepository) ListWithSymbols(ctx context.Context) ([]model.StockStateRow, error) {
	var rows []model.StockStateRow
	if err := r.db.WithContext(ctx).Raw(listStockStateSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list stock state: %w", err)
	}
	if rows == nil {
		rows = []model.StockStateRow{}
	}
	return rows, nil
}

// ListOpen returns the state rows whose status is "open".
func (r *StockStateRepository) ListOpen(ctx context.Context) ([]model.OpenStateRow, error) {
	var rows []model.OpenStateRow
	if err := r.db.WithContext(ctx).Raw(listOpenStockStateSQL, model.StateStatusOpen).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list open stock state: %w", err)
	}
	if rows == nil {
		rows = []model.OpenStateRow{}
	}
	return rows, nil
}

func (r *StockStateRepository) FindBySymbolID(ctx context.Context, symbolID uint) (*model.StockState, error) {
	var state model.StockState
	err := r.db.WithContext(ctx).
		Where(`"idSymbol" = ?`, symbolID).
		Take(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stock state %d: %w", symbolID, err)
	}
	return &state, nil
}

// ApplyUpdate writes an update in a single conditional UPDATE statement so
// that accumulation on "open" is computed by the database from the stored
// values. A missing row yields ErrStateNotFound and nothing is written.
//
// open:  invested += amountBuySell (default 10), shares += shares
// close: invested, shares and maxValue are zeroed
// other: each provided field replaces the stored one
func (r *StockStateRepository) ApplyUpdate(ctx context.Context, p model.UpdateStockStatePayload) (*model.StockState, error) {
	assignments := map[string]interface{}{
		"status":        gorm.Expr(`COALESCE(?, "status")`, p.Status),
		"buy":           gorm.Expr(`COALESCE(?, "buy")`, p.Buy),
		"shouldSell":    gorm.Expr(`COALESCE(?, "shouldSell")`, p.ShouldSell),
		"sell":          gorm.Expr(`COALESCE(?, "sell")`, p.Sell),
		"lastAction":    gorm.Expr(`COALESCE(?, "lastAction")`, p.LastAction),
		"amountBuySell": gorm.Expr(`COALESCE(?, "amountBuySell")`, p.AmountBuySell),
	}

	switch {
	case p.StatusIs(model.StateStatusOpen):
		shares := decimal.Zero
		if p.Shares != nil {
			shares = *p.Shares
		}
		assignments["invested"] = gorm.Expr(`COALESCE("invested", 0) + ?`, p.OpenAmount())
		assignments["shares"] = gorm.Expr(`COALESCE("shares", 0) + ?`, shares)
		assignments["maxValue"] = gorm.Expr(`COALESCE(?, "maxValue")`, p.MaxValue)
	case p.StatusIs(model.StateStatusClose):
		assignments["invested"] = decimal.Zero
		assignments["shares"] = decimal.Zero
		assignments["maxValue"] = decimal.Zero
	default:
		assignments["invested"] = gorm.Expr(`COALESCE(?, "invested")`, p.Invested)
		assignments["shares"] = gorm.Expr(`COALESCE(?, "shares")`, p.Shares)
		assignments["maxValue"] = gorm.Expr(`COALESCE(?, "maxValue")`, p.MaxValue)
	}

	res := r.db.WithContext(ctx).
		Model(&model.StockState{}).
		Where(`"idSymbol" = ?`, p.IDSymbol).
		Updates(assignments)
	if res.Error != nil {
		return nil, fmt.Errorf("update stock state %d: %w", p.IDSymbol, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrStateNotFound
	}

	return r.FindBySymbolID(ctx, p.IDSymbol)
}
