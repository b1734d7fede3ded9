package repository

import (
	"context"

	"stockpanel/src/model"

	logger "github.com/sirupsen/logrus"
)

type PriceReader interface {
	Latest(ctx context.Context, symbol string) (*model.PriceSample, error)
}

// PriceCache stores latest price samples keyed by ticker.
type PriceCache interface {
	Get(ctx context.Context, symbol string) (*model.PriceSample, bool, error)
	Set(ctx context.Context, symbol string, sample *model.PriceSample) error
}

// CachedPriceRepository is a read-through cache in front of a PriceReader.
// Cache failures are logged and never fail the lookup.
type CachedPriceRepository struct {
	next  PriceReader
	cache PriceCache
	log   *logger.Entry
}

func NewCachedPriceRepository(next PriceReader, cache PriceCache) *CachedPriceRepository {
	return &CachedPriceRepository{
		next:  next,
		cache: cache,
		log:   logger.WithField("component", "CachedPriceRepository"),
	}
}

func (r *CachedPriceRepository) Latest(ctx context.Context, symbol string) (*model.PriceSample, error) {
	sample, ok, err := r.cache.Get(ctx, symbol)
	if err != nil {
		r.log.WithError(err).WithField("symbol", symbol).Warn("price cache read failed")
	}
	if ok {
		return sample, nil
	}

	sample, err = r.next.Latest(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, nil
	}

	if err := r.cache.Set(ctx, symbol, sample); err != nil {
		r.log.WithError(err).WithField("symbol", symbol).Warn("price cache write failed")
	}
	return sample, nil
}
