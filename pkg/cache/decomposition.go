// Package cache provides a Redis-backed cache for query-decomposition
// results. The cache is a pure optimization: retrieval behaves identically
// with it disabled, and every cache failure degrades to a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mcmp-ai/assistant/pkg/logging"
)

// DecompositionCache stores sub-query lists keyed by question text
type DecompositionCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    logging.Logger
}

// Option represents an option for configuring the cache
type Option func(*DecompositionCache)

// WithTTL sets how long cached decompositions live
func WithTTL(ttl time.Duration) Option {
	return func(c *DecompositionCache) {
		c.ttl = ttl
	}
}

// WithKeyPrefix sets a custom prefix for cache keys
func WithKeyPrefix(prefix string) Option {
	return func(c *DecompositionCache) {
		c.keyPrefix = prefix
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger logging.Logger) Option {
	return func(c *DecompositionCache) {
		c.logger = logger
	}
}

// New creates a decomposition cache over a Redis instance
func New(addr, password string, db int, options ...Option) *DecompositionCache {
	cache := &DecompositionCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl:       time.Hour,
		keyPrefix: "decomposition:",
		logger:    logging.New(),
	}

	for _, option := range options {
		option(cache)
	}

	return cache
}

// Get returns the cached sub-queries for question, or nil on a miss. Redis
// errors are logged and reported as misses.
func (c *DecompositionCache) Get(ctx context.Context, question string) []string {
	data, err := c.client.Get(ctx, c.key(question)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "Decomposition cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil
	}

	var queries []string
	if err := json.Unmarshal([]byte(data), &queries); err != nil {
		c.logger.Warn(ctx, "Discarding malformed cache entry", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	return queries
}

// Set stores the sub-queries for question. Failures are logged and ignored.
func (c *DecompositionCache) Set(ctx context.Context, question string, queries []string) {
	data, err := json.Marshal(queries)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.key(question), data, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "Decomposition cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *DecompositionCache) key(question string) string {
	sum := sha256.Sum256([]byte(question))
	return c.keyPrefix + hex.EncodeToString(sum[:])
}
