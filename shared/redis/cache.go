package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewCache is a generic JSON-backed Redis cache for read model projections.
// Bind it to a specific view type T; pass a ttl of 0 for keys that should
// not expire.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
	prefix string
	log    *zap.SugaredLogger
}

// NewViewCache creates a ViewCache whose keys are namespaced under prefix.
func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration, log *zap.Logger) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl, log: log.Sugar()}
}

// Get retrieves and unmarshals a value from Redis.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set marshals value and stores it under id. A failed cache write is
// logged, never returned.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warnw("view cache marshal failed", "key", c.prefix+id, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+id, data, c.ttl).Err(); err != nil {
		c.log.Warnw("view cache write failed", "key", c.prefix+id, "error", err)
	}
}

// Delete removes the given ids.
func (c *ViewCache[T]) Delete(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.prefix + id
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warnw("view cache delete failed", "keys", keys, "error", err)
	}
}
