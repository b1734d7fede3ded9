package controller

import (
	"context"
	"fmt"
	"time"

	"stockpanel/src/model"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type priceLookup interface {
	Latest(ctx context.Context, symbol string) (*model.PriceSample, error)
}

// BuildOpenBlocks enriches each open state row with its latest price sample.
// Lookups run concurrently (at most concurrency at a time) but results keep
// the order of rows. A failed lookup fails the whole result.
func BuildOpenBlocks(
	ctx context.Context,
	rows []model.OpenStateRow,
	prices priceLookup,
	now time.Time,
	concurrency int,
) ([]model.OpenBlock, error) {
	blocks := make([]model.OpenBlock, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i := range rows {
		i := i
		row := rows[i]
		g.Go(func() error {
			sample, err := prices.Latest(gctx, row.Symbol)
			if err != nil {
				return fmt.Errorf("price for %s: %w", row.Symbol, err)
			}
			blocks[i] = buildOpenBlock(row, sample, now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("failed to enrich open blocks")
		return nil, err
	}

	return blocks, nil
}

func buildOpenBlock(row model.OpenStateRow, sample *model.PriceSample, now time.Time) model.OpenBlock {
	block := model.OpenBlock{
		Symbol:        row.Symbol,
		Invested:      model.NotAvailable,
		Shares:        model.NotAvailable,
		CurrentValue:  decimal.Zero,
		ProfitLoss:    model.NotAvailable,
		ProfitLossPct: model.NotAvailable,
		TimeOpened:    TimeOpened(now, row.LastAction),
		SymbolID:      row.SymbolID,
		Buy:           row.Buy,
		Sell:          row.Sell,
		ShouldSell:    row.ShouldSell,
	}
	if block.Symbol == "" {
		block.Symbol = model.NotAvailable
	}
	if row.Invested.Valid {
		block.Invested = row.Invested.Decimal.StringFixed(2)
	}
	if row.Shares.Valid {
		block.Shares = row.Shares.Decimal
	}

	if sample != nil && row.Invested.Valid && row.Shares.Valid {
		block.CurrentValue = row.Shares.Decimal.Mul(sample.Close)
		block.ProfitLoss = ProfitLossPercent(row.Invested.Decimal, block.CurrentValue)
		block.ProfitLossPct = block.ProfitLoss
	}

	return block
}
