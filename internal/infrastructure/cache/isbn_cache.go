// Package cache provides the Redis-backed ISBN lookup cache.
package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"librairie/internal/core/id"
	"librairie/internal/domain/catalog"
)

const isbnKeyPrefix = "isbn:"

// The ISBN to item-id mapping never changes once an item exists, so a long
// TTL is safe. The TTL only bounds memory after item deletions.
const isbnTTL = 24 * time.Hour

// RedisISBNCache implements catalog.ISBNCache on Redis.
type RedisISBNCache struct {
	client *redis.Client
}

// NewRedisISBNCache connects to Redis.
func NewRedisISBNCache(addr, password string, db int) *RedisISBNCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisISBNCache{client: client}
}

var _ catalog.ISBNCache = (*RedisISBNCache)(nil)

// Ping checks the connection.
func (c *RedisISBNCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *RedisISBNCache) Close() error {
	return c.client.Close()
}

// GetID returns the cached item id for an ISBN.
func (c *RedisISBNCache) GetID(ctx context.Context, isbn string) (id.ID, bool, error) {
	val, err := c.client.Get(ctx, isbnKeyPrefix+isbn).Result()
	if errors.Is(err, redis.Nil) {
		return id.Nil, false, nil
	}
	if err != nil {
		return id.Nil, false, err
	}

	itemID, err := id.Parse(val)
	if err != nil {
		// A corrupt entry behaves like a miss and gets rewritten.
		return id.Nil, false, nil
	}
	return itemID, true, nil
}

// SetID stores the ISBN to item-id mapping.
func (c *RedisISBNCache) SetID(ctx context.Context, isbn string, itemID id.ID) error {
	return c.client.Set(ctx, isbnKeyPrefix+isbn, itemID.String(), isbnTTL).Err()
}

// NoopISBNCache satisfies catalog.ISBNCache when Redis is not configured.
type NoopISBNCache struct{}

var _ catalog.ISBNCache = NoopISBNCache{}

// GetID always misses.
func (NoopISBNCache) GetID(ctx context.Context, isbn string) (id.ID, bool, error) {
	return id.Nil, false, nil
}

// SetID does nothing.
func (NoopISBNCache) SetID(ctx context.Context, isbn string, itemID id.ID) error {
	return nil
}
