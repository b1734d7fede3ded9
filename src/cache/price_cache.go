package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stockpanel/src/model"
	"stockpanel/src/repository"

	"github.com/redis/go-redis/v9"
)

const priceKeyPrefix = "stockpanel:price:"

// PriceCache stores the latest price sample of a symbol as a JSON string
// that expires after ttl.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPriceCache(c *Client, ttl time.Duration) *PriceCache {
	return &PriceCache{rdb: c.rdb, ttl: ttl}
}

func priceKey(symbol string) string {
	return priceKeyPrefix + symbol
}

func (pc *PriceCache) Get(ctx context.Context, symbol string) (*model.PriceSample, bool, error) {
	raw, err := pc.rdb.Get(ctx, priceKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get price %s: %w", symbol, err)
	}

	sample, err := decodeSample(raw)
	if err != nil {
		return nil, false, fmt.Errorf("redis: decode price %s: %w", symbol, err)
	}
	return sample, true, nil
}

func (pc *PriceCache) Set(ctx context.Context, symbol string, sample *model.PriceSample) error {
	raw, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("redis: encode price %s: %w", symbol, err)
	}
	if err := pc.rdb.Set(ctx, priceKey(symbol), raw, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set price %s: %w", symbol, err)
	}
	return nil
}

func decodeSample(raw []byte) (*model.PriceSample, error) {
	var sample model.PriceSample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

var _ repository.PriceCache = (*PriceCache)(nil)
