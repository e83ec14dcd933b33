// Package cache implements the rulebook cache on Redis.
//
// Key layout, per carrier:
//
//	<prefix>:rulebook:<carrier>:gen            current generation (INCR on invalidate)
//	<prefix>:rulebook:<carrier>:g<n>:<event>   cached binding of generation n
//
// Bindings of older generations are never read again and expire with their TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// noRule marks a cached miss, so carriers without a binding do not hit the
// database on every lookup.
const noRule = "-"

const defaultTTL = 10 * time.Minute

// RedisRulebookCache implements ports.RulebookCache.
type RedisRulebookCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisRulebookCache creates the cache. An empty prefix falls back to
// "freight" and a non-positive ttl to ten minutes.
func NewRedisRulebookCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRulebookCache {
	if prefix == "" {
		prefix = "freight"
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisRulebookCache{client: client, prefix: prefix, ttl: ttl}
}

// Get reads the carrier's generation first and then the binding stored
// under it.
func (c *RedisRulebookCache) Get(
	ctx context.Context,
	carrierID kernel.UUID,
	event carrier.Event,
) (ports.CachedRule, error) {
	generation, err := c.generation(ctx, carrierID)
	if err != nil {
		return ports.CachedRule{}, err
	}
	entry := ports.CachedRule{Generation: generation}

	val, err := c.client.Get(ctx, c.key(carrierID, generation, event)).Result()
	if errors.Is(err, redis.Nil) {
		return entry, nil
	}
	if err != nil {
		return ports.CachedRule{}, err
	}

	entry.Found = true
	if val == noRule {
		return entry, nil
	}
	statusID, err := kernel.UUIDFromString(val)
	if err != nil {
		return ports.CachedRule{}, err
	}
	entry.StatusID = &statusID
	return entry, nil
}

// Set stores the binding under generation. Writes for a generation that
// has since been invalidated are harmless.
func (c *RedisRulebookCache) Set(
	ctx context.Context,
	carrierID kernel.UUID,
	generation int64,
	event carrier.Event,
	statusID *kernel.UUID,
) error {
	val := noRule
	if statusID != nil {
		val = statusID.String()
	}
	return c.client.Set(ctx, c.key(carrierID, generation, event), val, c.ttl).Err()
}

// Invalidate starts a new generation for the carrier, which hides every
// binding cached so far, including ones still being written.
func (c *RedisRulebookCache) Invalidate(ctx context.Context, carrierID kernel.UUID) error {
	return c.client.Incr(ctx, c.generationKey(carrierID)).Err()
}

func (c *RedisRulebookCache) generation(ctx context.Context, carrierID kernel.UUID) (int64, error) {
	generation, err := c.client.Get(ctx, c.generationKey(carrierID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (c *RedisRulebookCache) generationKey(carrierID kernel.UUID) string {
	return fmt.Sprintf("%s:rulebook:%s:gen", c.prefix, carrierID)
}

func (c *RedisRulebookCache) key(carrierID kernel.UUID, generation int64, event carrier.Event) string {
	return fmt.Sprintf("%s:rulebook:%s:g%d:%s", c.prefix, carrierID, generation, event)
}
