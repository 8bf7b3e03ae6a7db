package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type localEntry struct {
	Expires time.Time
	Data    []byte
}

// ResponseCache keeps raw catalog service responses in Redis with a short
// local overlay, so a fleet of query nodes shares one upstream fetch.
type ResponseCache struct {
	client *redis.Client
	ctx    context.Context
	mu     sync.Mutex
	local  map[string]localEntry
}

func NewResponseCache(addr, password string, db int) *ResponseCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ResponseCache{
		client: rdb,
		ctx:    context.Background(),
		local:  make(map[string]localEntry),
	}
}

func (c *ResponseCache) GetRaw(key string) ([]byte, error) {
	c.mu.Lock()
	entry, found := c.local[key]
	if found {
		if time.Now().Before(entry.Expires) {
			c.mu.Unlock()
			return entry.Data, nil
		}
		delete(c.local, key)
	}
	c.mu.Unlock()

	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.local[key] = localEntry{Expires: time.Now().Add(time.Minute), Data: data}
	c.mu.Unlock()
	return data, nil
}

func (c *ResponseCache) SetRaw(key string, data []byte, expiration time.Duration) error {
	c.mu.Lock()
	c.local[key] = localEntry{Expires: time.Now().Add(expiration), Data: data}
	c.mu.Unlock()
	return c.client.Set(c.ctx, key, data, expiration).Err()
}

func (c *ResponseCache) Invalidate(keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.local, key)
	}
	c.mu.Unlock()
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(c.ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidation failed: %w", err)
	}
	return nil
}

func (c *ResponseCache) Close() {
	c.client.Close()
}
