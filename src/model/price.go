package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPriceReal is the latest observed price of a symbol. It is written by
// the scraping scripts and only read here.
type StockPriceReal struct {
	IDSymbol  uint            `gorm:"primaryKey;autoIncrement:false;column:idSymbol"`
	Open      decimal.Decimal `gorm:"column:open;type:double precision"`
	High      decimal.Decimal `gorm:"column:high;type:double precision"`
	Low       decimal.Decimal `gorm:"column:low;type:double precision"`
	Close     decimal.Decimal `gorm:"column:close;type:double precision"`
	Volume    decimal.Decimal `gorm:"column:volume;type:double precision"`
	Timestamp *time.Time      `gorm:"column:timestamp"`
	Updated   time.Time       `gorm:"column:updated;index"`
}

func (StockPriceReal) TableName() string {
	return "tStock_PricesReal"
}

// PriceSample is one row of GET /get-price-data/{symbol}.
type PriceSample struct {
	Close   decimal.Decimal `gorm:"column:close" json:"close"`
	Updated time.Time       `gorm:"column:updated" json:"updated"`
}
