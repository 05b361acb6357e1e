// AngelaMos | 2026
// cache.go

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfront/storefront-api/internal/core"
)

// ListCache holds the full product listing. Implementations swallow their
// own failures; a broken cache only costs a database read.
//
// Every Invalidate bumps a generation counter. A listing is stored only if
// the generation read before its database query is still current, so a
// read that raced a mutation can never repopulate the cache with stale rows.
type ListCache interface {
	Get(ctx context.Context) ([]Product, bool)
	Generation(ctx context.Context) (int64, bool)
	Set(ctx context.Context, generation int64, products []Product)
	Invalidate(ctx context.Context)
}

var (
	listCacheKey      = core.RedisKey("catalog", "products")
	listGenerationKey = core.RedisKey("catalog", "products", "generation")
)

// setIfCurrent writes KEYS[1] only while KEYS[2] still equals ARGV[1].
var setIfCurrent = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[2]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

type redisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, ttl time.Duration) ListCache {
	return &redisListCache{client: client, ttl: ttl}
}

func (c *redisListCache) Get(ctx context.Context) ([]Product, bool) {
	raw, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("product cache read failed", "error", err)
		}
		return nil, false
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		slog.Warn("product cache decode failed", "error", err)
		return nil, false
	}

	return products, true
}

func (c *redisListCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, listGenerationKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		slog.Warn("product cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (c *redisListCache) Set(ctx context.Context, generation int64, products []Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		slog.Warn("product cache encode failed", "error", err)
		return
	}

	stored, err := setIfCurrent.Run(ctx, c.client,
		[]string{listCacheKey, listGenerationKey},
		generation, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		slog.Warn("product cache write failed", "error", err)
		return
	}
	if stored == 0 {
		slog.Debug("product cache write skipped, listing outdated", "generation", generation)
	}
}

func (c *redisListCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, listGenerationKey)
		pipe.Del(ctx, listCacheKey)
		return nil
	})
	if err != nil {
		slog.Warn("product cache invalidate failed", "error", err)
	}
}

type noopListCache struct{}

func (noopListCache) Get(context.Context) ([]Product, bool)    { return nil, false }
func (noopListCache) Generation(context.Context) (int64, bool) { return 0, false }
func (noopListCache) Set(context.Context, int64, []Product)    {}
func (noopListCache) Invalidate(context.Context)               {}
