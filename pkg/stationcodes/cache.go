package stationcodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const notFoundValue = "N/A"

// CrsResolver is anything that can turn a TIPLOC into a CRS code
type CrsResolver interface {
	TiplocToCrs(ctx context.Context, tiploc string) (string, error)
}

// CachedResolver keeps TIPLOC to CRS answers in Redis so several processes share them
type CachedResolver struct {
	Resolver CrsResolver
	Cache    *cache.Cache[string]
}

func NewCachedResolver(resolver CrsResolver, client *redis.Client) *CachedResolver {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(24*time.Hour))

	return &CachedResolver{
		Resolver: resolver,
		Cache:    cache.New[string](redisStore),
	}
}

func (c *CachedResolver) TiplocToCrs(ctx context.Context, tiploc string) (string, error) {
	cacheKey := fmt.Sprintf("GB:TIPLOC:%s:CRS", tiploc)

	cacheValue, err := c.Cache.Get(ctx, cacheKey)
	if err == nil {
		if cacheValue == notFoundValue {
			return "", fmt.Errorf("%w for TIPLOC %s", ErrNoCrsFound, tiploc)
		}

		return cacheValue, nil
	}

	crs, err := c.Resolver.TiplocToCrs(ctx, tiploc)
	if errors.Is(err, ErrNoCrsFound) {
		c.set(ctx, cacheKey, notFoundValue)
		return "", err
	} else if err != nil {
		return "", err
	}

	c.set(ctx, cacheKey, crs)

	return crs, nil
}

func (c *CachedResolver) AtcoToCrs(ctx context.Context, atco string) (string, error) {
	tiploc, err := AtcoToTiploc(atco)
	if err != nil {
		return "", err
	}

	return c.TiplocToCrs(ctx, tiploc)
}

func (c *CachedResolver) set(ctx context.Context, key string, value string) {
	if err := c.Cache.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache station code")
	}
}
