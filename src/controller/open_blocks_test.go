package controller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"stockpanel/src/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	mu      sync.Mutex
	samples map[string]*model.PriceSample
	fail    map[string]error
	looked  []string
}

func (s *stubPrices) Latest(_ context.Context, symbol string) (*model.PriceSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.looked = append(s.looked, symbol)
	if err := s.fail[symbol]; err != nil {
		return nil, err
	}
	return s.samples[symbol], nil
}

func nullDec(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestBuildOpenBlocks(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	openedToday := now.Add(-2 * time.Hour)
	openedEarlier := now.Add(-3 * 24 * time.Hour)

	rows := []model.OpenStateRow{
		{Symbol: "AAPL", SymbolID: 1, Invested: nullDec(100), Shares: nullDec(5), LastAction: &openedToday, Buy: true},
		{Symbol: "MSFT", SymbolID: 2, Invested: nullDec(0), Shares: nullDec(2), LastAction: &openedEarlier},
		{Symbol: "TSLA", SymbolID: 3, Invested: nullDec(50), Shares: nullDec(1)},
		{Symbol: "NVDA", SymbolID: 4, ShouldSell: true},
	}
	prices := &stubPrices{samples: map[string]*model.PriceSample{
		"AAPL": {Close: decimal.NewFromInt(25)},
		"MSFT": {Close: decimal.NewFromInt(10)},
		"NVDA": {Close: decimal.NewFromInt(900)},
	}}

	blocks, err := BuildOpenBlocks(context.Background(), rows, prices, now, 2)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Len(t, prices.looked, 4, "one price lookup per row")

	aapl := blocks[0]
	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, "100.00", aapl.Invested)
	assert.True(t, aapl.CurrentValue.Equal(decimal.NewFromInt(125)))
	assert.Equal(t, "25.00", aapl.ProfitLoss)
	assert.Equal(t, "25.00", aapl.ProfitLossPct)
	assert.Equal(t, "today", aapl.TimeOpened)
	assert.True(t, aapl.Buy)

	msft := blocks[1]
	assert.Equal(t, model.NotAvailable, msft.ProfitLoss, "zero invested must not divide")
	assert.True(t, msft.CurrentValue.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 3, msft.TimeOpened)

	tsla := blocks[2]
	assert.Equal(t, model.NotAvailable, tsla.ProfitLoss, "no price sample")
	assert.True(t, tsla.CurrentValue.IsZero())
	assert.Equal(t, model.NotAvailable, tsla.TimeOpened)

	nvda := blocks[3]
	assert.Equal(t, model.NotAvailable, nvda.Invested)
	assert.Equal(t, model.NotAvailable, nvda.Shares)
	assert.Equal(t, model.NotAvailable, nvda.ProfitLoss)
	assert.True(t, nvda.ShouldSell)
}

func TestBuildOpenBlocksFailsWholeAggregate(t *testing.T) {
	rows := []model.OpenStateRow{
		{Symbol: "AAPL", Invested: nullDec(100), Shares: nullDec(5)},
		{Symbol: "BAD", Invested: nullDec(100), Shares: nullDec(5)},
	}
	prices := &stubPrices{
		samples: map[string]*model.PriceSample{"AAPL": {Close: decimal.NewFromInt(25)}},
		fail:    map[string]error{"BAD": errors.New("query failed")},
	}

	blocks, err := BuildOpenBlocks(context.Background(), rows, prices, time.Now(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD")
	assert.Nil(t, blocks)
}

func TestBuildOpenBlocksEmpty(t *testing.T) {
	blocks, err := BuildOpenBlocks(context.Background(), []model.OpenStateRow{}, &stubPrices{}, time.Now(), 4)
	require.NoError(t, err)
	assert.NotNil(t, blocks)
	assert.Empty(t, blocks)
}

func TestOpenBlockJSONShape(t *testing.T) {
	now := time.Now()
	block := buildOpenBlock(
		model.OpenStateRow{Symbol: "AAPL", SymbolID: 1, Invested: nullDec(100), Shares: nullDec(5)},
		&model.PriceSample{Close: decimal.NewFromInt(25)},
		now,
	)

	raw, err := json.Marshal(block)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(125), decoded["currentValue"])
	assert.Equal(t, "25.00", decoded["profitLoss"])
	assert.Equal(t, "25.00", decoded["Profit/Loss (%)"])
	assert.Equal(t, "100.00", decoded["Invested"])
	assert.Equal(t, float64(5), decoded["Shares"])
	assert.Equal(t, float64(1), decoded["symbol_id"])
}
