package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"fuzzplot/config"
	"fuzzplot/internal/types"
)

const seriesKeyPrefix = "fuzzplot:series:"

// SeriesCache stores parsed series keyed by log content and parser, so
// re-plotting unchanged logs skips the regex pass
type SeriesCache struct {
	client *redis.Client
	ttl    time.Duration
}

type SeriesCacheParams struct {
	fx.In
	Config *config.AppConfig
	Client *redis.Client `optional:"true"`
}

func NewSeriesCache(p SeriesCacheParams) *SeriesCache {
	if p.Client == nil {
		return nil
	}
	return &SeriesCache{client: p.Client, ttl: p.Config.CacheConfig.SeriesTTL}
}

// SeriesKey identifies the result of running parser over content
func SeriesKey(content []byte, parser string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(parser))
	return seriesKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get reports a miss as (nil, false, nil); a nil cache always misses
func (c *SeriesCache) Get(ctx context.Context, key string) ([]types.Series, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached series: %w", err)
	}
	var series []types.Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached series: %w", err)
	}
	return series, true, nil
}

func (c *SeriesCache) Set(ctx context.Context, key string, series []types.Series) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to encode series: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache series: %w", err)
	}
	return nil
}
