package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

const listingVersionKey = "listing:version"

// ListingCache stores coarse product listings by query key. Entries are
// namespaced by a version counter, so a product write invalidates every
// cached listing with one INCR.
type ListingCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewListingCache creates a new ListingCache.
func NewListingCache(redis *RedisClient, ttl time.Duration) *ListingCache {
	return &ListingCache{redis: redis, ttl: ttl}
}

func listingKey(version, queryKey string) string {
	return fmt.Sprintf("listing:v%s:%s", version, queryKey)
}

func (c *ListingCache) version(ctx context.Context) (string, error) {
	v, err := c.redis.Get(ctx, listingVersionKey)
	if IsMiss(err) {
		return "0", nil
	}
	return v, err
}

// Get returns the cached listing for queryKey together with the listing
// version it was looked up under. A miss is reported as ok=false; the version
// is still returned so the caller can Set the result it fetches next.
func (c *ListingCache) Get(ctx context.Context, queryKey string) ([]models.Product, string, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return nil, "", false, err
	}
	raw, err := c.redis.Get(ctx, listingKey(v, queryKey))
	if IsMiss(err) {
		return nil, v, false, nil
	}
	if err != nil {
		return nil, v, false, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, v, false, fmt.Errorf("failed to unmarshal listing: %w", err)
	}
	return products, v, true, nil
}

// Set caches a listing under queryKey for the given version. A listing read
// before an Invalidate lands under the old version and is never served.
func (c *ListingCache) Set(ctx context.Context, version, queryKey string, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}
	return c.redis.Set(ctx, listingKey(version, queryKey), string(data), c.ttl)
}

// Invalidate drops every cached listing.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	_, err := c.redis.Incr(ctx, listingVersionKey)
	return err
}
