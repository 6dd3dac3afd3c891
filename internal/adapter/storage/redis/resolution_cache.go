package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResolutionCache implements ports.ResolutionCache using Redis.
type ResolutionCache struct {
	client goredis.UniversalClient
	prefix string
}

// NewResolutionCache creates a new Redis-backed resolution cache.
func NewResolutionCache(client goredis.UniversalClient) *ResolutionCache {
	return &ResolutionCache{
		client: client,
		prefix: "resolution:",
	}
}

// Get retrieves a cached resolution by key.
// Returns nil, nil if the key does not exist.
func (c *ResolutionCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis resolution get: %w", err)
	}
	return val, nil
}

// Set stores a resolution with TTL.
func (c *ResolutionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis resolution set: %w", err)
	}
	return nil
}
