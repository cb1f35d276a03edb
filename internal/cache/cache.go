package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"brokerage-portal/internal/models"
)

// CollectionCache is a read-through Redis cache for fetched CMS collections,
// keyed by kind plus the canonical server-filter encoding. Cache failures
// degrade to a direct fetch; they are never surfaced to the visitor.
type CollectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *CollectionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CollectionCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies connectivity at startup.
func (c *CollectionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Key builds the cache key for a collection fetch.
func Key(kind models.Kind, filterQuery string) string {
	if filterQuery == "" {
		return "collection:" + string(kind)
	}
	return "collection:" + string(kind) + ":" + filterQuery
}

// Get returns the cached collection, or ok=false on a miss or any cache
// error.
func (c *CollectionCache) Get(ctx context.Context, key string) ([]models.Listing, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] get %s failed: %v", key, err)
		}
		return nil, false
	}

	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		log.Printf("[Cache] corrupt entry %s: %v", key, err)
		c.client.Del(ctx, key)
		return nil, false
	}
	return listings, true
}

// Set stores a fetched collection. Errors are logged and swallowed.
func (c *CollectionCache) Set(ctx context.Context, key string, listings []models.Listing) {
	data, err := json.Marshal(listings)
	if err != nil {
		log.Printf("[Cache] marshal %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
}

// InvalidateAll drops every cached collection, called after a sync run so
// views pick up fresh content.
func (c *CollectionCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, "collection:*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] invalidate scan failed: %v", err)
	}
}

func (c *CollectionCache) Close() error {
	return c.client.Close()
}
