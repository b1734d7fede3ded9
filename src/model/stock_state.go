package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StateStatusOpen  = "open"
	StateStatusClose = "close"
)

// DefaultAmountBuySell is added to invested on an "open" update when the
// caller does not send amountBuySell.
var DefaultAmountBuySell = decimal.NewFromInt(10)

// StockState is the single current trading-status row of a symbol.
type StockState struct {
	IDSymbol      uint            `gorm:"primaryKey;autoIncrement:false;column:idSymbol" json:"idSymbol"`
	Status        string          `gorm:"column:status;size:10;not null;default:close" json:"status"`
	Buy           bool            `gorm:"column:buy;not null;default:false" json:"buy"`
	ShouldSell    bool            `gorm:"column:shouldSell;not null;default:false" json:"shouldSell"`
	Sell          bool            `gorm:"column:sell;not null;default:false" json:"sell"`
	Checked       *time.Time      `gorm:"column:checked" json:"checked,omitempty"`
	LastAction    *time.Time      `gorm:"column:lastAction" json:"lastAction,omitempty"`
	Invested      decimal.Decimal `gorm:"column:invested;type:double precision;not null;default:0" json:"invested"`
	Shares        decimal.Decimal `gorm:"column:shares;type:double precision;not null;default:0" json:"shares"`
	MaxValue      decimal.Decimal `gorm:"column:maxValue;type:double precision;not null;default:0" json:"maxValue"`
	AmountBuySell decimal.Decimal `gorm:"column:amountBuySell;type:double precision;not null;default:0" json:"amountBuySell"`
}

func (StockState) TableName() string {
	return "tStockState"
}

// StockStateRow is one row of GET /get-stock-data.
type StockStateRow struct {
	Symbol     string          `gorm:"column:Symbol" json:"Symbol"`
	Buy        bool            `gorm:"column:buy" json:"buy"`
	ShouldSell bool            `gorm:"column:shouldSell" json:"shouldSell"`
	Sell       bool            `gorm:"column:sell" json:"sell"`
	Invested   decimal.Decimal `gorm:"column:invested" json:"invested"`
	Shares     decimal.Decimal `gorm:"column:shares" json:"shares"`
	MaxValue   decimal.Decimal `gorm:"column:maxValue" json:"maxValue"`
}

// OpenStateRow is a state row with status "open" joined with its symbol.
type OpenStateRow struct {
	Symbol     string              `gorm:"column:Symbol"`
	SymbolID   uint                `gorm:"column:symbol_id"`
	Invested   decimal.NullDecimal `gorm:"column:invested"`
	Shares     decimal.NullDecimal `gorm:"column:shares"`
	LastAction *time.Time          `gorm:"column:lastAction"`
	Buy        bool                `gorm:"column:buy"`
	Sell       bool                `gorm:"column:sell"`
	ShouldSell bool                `gorm:"column:shouldSell"`
}

// UpdateStockStatePayload is the body of POST /update-stock-state. Every
// field except idSymbol is optional; absent fields keep the stored value.
type UpdateStockStatePayload struct {
	IDSymbol      uint             `json:"idSymbol"`
	Status        *string          `json:"status"`
	Buy           *bool            `json:"buy"`
	ShouldSell    *bool            `json:"shouldSell"`
	Sell          *bool            `json:"sell"`
	LastAction    *time.Time       `json:"lastAction"`
	Invested      *decimal.Decimal `json:"invested"`
	Shares        *decimal.Decimal `json:"shares"`
	MaxValue      *decimal.Decimal `json:"maxValue"`
	AmountBuySell *decimal.Decimal `json:"amountBuySell"`
}

// lastActionLayouts are tried in order. Layouts without a zone parse as UTC.
var lastActionLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func (p *UpdateStockStatePayload) UnmarshalJSON(data []byte) error {
	type plain UpdateStockStatePayload
	aux := struct {
		*plain
		LastAction *string `json:"lastAction"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.LastAction == nil {
		p.LastAction = nil
		return nil
	}
	at, err := parseLastAction(*aux.LastAction)
	if err != nil {
		return err
	}
	p.LastAction = &at
	return nil
}

func parseLastAction(value string) (time.Time, error) {
	for _, layout := range lastActionLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("lastAction %q: unsupported time format", value)
}

// StatusIs reports whether the payload carries the given status.
func (p UpdateStockStatePayload) StatusIs(status string) bool {
	return p.Status != nil && *p.Status == status
}

// OpenAmount is the amount added to invested on an "open" update.
func (p UpdateStockStatePayload) OpenAmount() decimal.Decimal {
	if p.AmountBuySell == nil || p.AmountBuySell.IsZero() {
		return DefaultAmountBuySell
	}
	return *p.AmountBuySell
}
