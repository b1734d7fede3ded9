package model

import "github.com/shopspring/decimal"

const NotAvailable = "N/A"

// OpenBlock is one enriched open position as rendered by the open-blocks page.
// Shares and TimeOpened hold either a value or NotAvailable.
type OpenBlock struct {
	Symbol        string          `json:"Symbol"`
	Invested      string          `json:"Invested"`
	Shares        any             `json:"Shares"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	ProfitLoss    string          `json:"profitLoss"`
	ProfitLossPct string          `json:"Profit/Loss (%)"`
	TimeOpened    any             `json:"Time Opened (days)"`
	SymbolID      uint            `json:"symbol_id"`
	Buy           bool            `json:"buy"`
	Sell          bool            `json:"sell"`
	ShouldSell    bool            `json:"shouldSell"`
}
