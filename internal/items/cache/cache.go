// Package cache provides a Redis-backed read-through cache for the public
// found-item listing. The listing is the hottest read path and tolerates
// short staleness; writes invalidate the cached page.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"reclaim/internal/items/models"
)

const (
	publishedListingKey = "items:published"
	defaultListingTTL   = 30 * time.Second
)

// ListingCache caches the published found-item listing. A nil *ListingCache
// is valid and disables caching, so callers never branch on configuration.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Option configures a ListingCache.
type Option func(*ListingCache)

// WithTTL overrides the listing expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *ListingCache) { c.ttl = ttl }
}

// New constructs a listing cache. Returns nil when client is nil.
func New(client *redis.Client, opts ...Option) *ListingCache {
	if client == nil {
		return nil
	}
	c := &ListingCache{client: client, ttl: defaultListingTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// GetPublished returns the cached listing, or ok=false on miss, decode
// failure, or an unreachable cache. Cache failures are never surfaced to the
// caller; the store remains the source of truth.
func (c *ListingCache) GetPublished(ctx context.Context) ([]models.FoundItem, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, publishedListingKey).Bytes()
	if err != nil {
		// redis.Nil (miss) and transport errors degrade the same way.
		return nil, false
	}
	var items []models.FoundItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// SetPublished stores the listing with the configured TTL. Best effort.
func (c *ListingCache) SetPublished(ctx context.Context, items []models.FoundItem) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, publishedListingKey, raw, c.ttl).Err()
}

// Invalidate drops the cached listing after a report or withdrawal.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, publishedListingKey).Err()
}
