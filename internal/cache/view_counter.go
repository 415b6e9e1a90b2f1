package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const viewKeyPrefix = "views:product:"

// ViewCounter buffers product detail views in Redis until a worker flushes them.
type ViewCounter struct {
	redis *RedisClient
}

// NewViewCounter creates a new ViewCounter.
func NewViewCounter(redis *RedisClient) *ViewCounter {
	return &ViewCounter{redis: redis}
}

// Record counts one view and returns the pending count for the product.
func (v *ViewCounter) Record(ctx context.Context, productID string) (int64, error) {
	return v.redis.Incr(ctx, viewKeyPrefix+productID)
}

// Drain removes every buffered counter and returns the counts by product id.
// Views recorded after a key is drained start a new counter.
func (v *ViewCounter) Drain(ctx context.Context) (map[string]int64, error) {
	keys, err := v.redis.Keys(ctx, viewKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan view counters: %w", err)
	}
	out := make(map[string]int64, len(keys))
	for _, key := range keys {
		raw, err := v.redis.GetDel(ctx, key)
		if IsMiss(err) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("drain %s: %w", key, err)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		out[strings.TrimPrefix(key, viewKeyPrefix)] = n
	}
	return out, nil
}

// Restore adds drained counts back, used when persisting them failed.
func (v *ViewCounter) Restore(ctx context.Context, counts map[string]int64) error {
	for id, n := range counts {
		if _, err := v.redis.IncrBy(ctx, viewKeyPrefix+id, n); err != nil {
			return fmt.Errorf("restore %s: %w", id, err)
		}
	}
	return nil
}
