package utils

import (
	"context" // Context for Redis operations
	"errors"  // Sentinel comparison
	"sync"    // Guards the in-memory map

	"github.com/redis/go-redis/v9" // Redis client
)

// CacheStore is a flat string key-value store. A missing key is reported as
// found == false, never as an error.
type CacheStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RedisHashCache stores every key as a field of a single Redis hash
type RedisHashCache struct {
	rdb  redis.Cmdable // Redis client
	hash string        // Hash name, e.g. "proxies"
}

// NewRedisHashCache returns a CacheStore backed by the Redis hash named hash
func NewRedisHashCache(rdb redis.Cmdable, hash string) *RedisHashCache {
	return &RedisHashCache{rdb: rdb, hash: hash}
}

// Get retrieves a field from the hash
func (c *RedisHashCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.HGet(ctx, c.hash, key).Result() // Get field from Redis
	if errors.Is(err, redis.Nil) {
		return "", false, nil // Field does not exist
	} else if err != nil {
		return "", false, err // Other Redis error
	}
	return val, true, nil
}

// Set writes a field into the hash
func (c *RedisHashCache) Set(ctx context.Context, key, value string) error {
	return c.rdb.HSet(ctx, c.hash, key, value).Err()
}

// Delete removes a field from the hash; deleting a missing field is a no-op
func (c *RedisHashCache) Delete(ctx context.Context, key string) error {
	return c.rdb.HDel(ctx, c.hash, key).Err()
}

// MemoryCache is a process-local CacheStore, used when no Redis is configured
// and in tests.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryCache returns an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]string)}
}

// Get returns the value stored under key
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok, nil
}

// Set stores value under key, replacing any previous value
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	c.items[key] = value
	c.mu.Unlock()
	return nil
}

// Delete removes key; deleting a missing key is a no-op
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached keys
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
