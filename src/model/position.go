package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition is one buy or sell transaction recorded against a symbol.
// Rows are append-only.
type StockPosition struct {
	ID        uint            `gorm:"primaryKey;column:id" json:"id"`
	IDSymbol  uint            `gorm:"column:idSymbol;index;not null" json:"idSymbol"`
	Type      string          `gorm:"column:type;size:20;not null" json:"type"`
	Amount    decimal.Decimal `gorm:"column:amount;type:double precision" json:"amount"`
	Price     decimal.Decimal `gorm:"column:price;type:double precision" json:"price"`
	Shares    decimal.Decimal `gorm:"column:shares;type:double precision" json:"shares"`
	Timestamp time.Time       `gorm:"column:timestamp;index" json:"timestamp"`
}

func (StockPosition) TableName() string {
	return "tStockPositions"
}

const (
	PositionTypeBuy  = "buy"
	PositionTypeSell = "sell"
)

// AddTransactionPayload is the body of POST /add-transaction.
type AddTransactionPayload struct {
	IDSymbol  uint            `json:"idSymbol"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	Shares    decimal.Decimal `json:"shares"`
	Timestamp time.Time       `json:"timestamp"`
}

func (p AddTransactionPayload) ToPosition() *StockPosition {
	return &StockPosition{
		IDSymbol:  p.IDSymbol,
		Type:      p.Type,
		Amount:    p.Amount,
		Price:     p.Price,
		Shares:    p.Shares,
		Timestamp: p.Timestamp,
	}
}
