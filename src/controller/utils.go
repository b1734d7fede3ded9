package controller

import (
	"time"

	"stockpanel/src/model"
	"stockpanel/src/utils"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProfitLossPercent returns (currentValue - invested) / invested * 100 with
// two decimals, or model.NotAvailable when invested is zero.
func ProfitLossPercent(invested, currentValue decimal.Decimal) string {
	if invested.IsZero() {
		return model.NotAvailable
	}
	return currentValue.Sub(invested).Div(invested).Mul(hundred).StringFixed(2)
}

// TimeOpened reports how long a block has been open: "today" within the first
// 24h, otherwise the whole number of days. A missing lastAction yields
// model.NotAvailable.
func TimeOpened(now time.Time, lastAction *time.Time) any {
	if lastAction == nil || lastAction.IsZero() {
		return model.NotAvailable
	}
	days := utils.WholeDaysBetween(*lastAction, now)
	if days == 0 {
		return "today"
	}
	return days
}
