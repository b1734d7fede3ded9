package model

import "time"

type StockSymbol struct {
	ID                uint       `gorm:"primaryKey;column:id" json:"id"`
	Symbol            string     `gorm:"column:Symbol;size:50;uniqueIndex;not null" json:"Symbol"`
	UpdatedShortTerm  *time.Time `gorm:"column:UpdatedShortTerm;type:date" json:"UpdatedShortTerm,omitempty"`
	UpdatedLongTerm   *time.Time `gorm:"column:UpdatedLongTerm;type:date" json:"UpdatedLongTerm,omitempty"`
	Enabled           bool       `gorm:"column:enabled;not null;default:true" json:"enabled"`
	RequestStateCheck bool       `gorm:"column:requestStateCheck;not null;default:false" json:"requestStateCheck"`
}

func (StockSymbol) TableName() string {
	return "tStockSymbols"
}
