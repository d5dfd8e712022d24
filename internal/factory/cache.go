package factory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/cache"
	"github.com/sanzuisann/my-chat-app/internal/config"
)

const cachePrefix = "chat-server"

// NewCache returns a Redis cache when cfg.RedisURL is set and an in-process
// cache otherwise. The *cache.Redis is nil in the latter case so callers know
// there is no remote dependency to health check.
func NewCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cache.Cache, *cache.Redis, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set; intent cache is in-process")
		return cache.NewMemory(cfg.IntentCacheSize, cfg.IntentCacheTTL()), nil, nil
	}
	r, err := cache.NewRedis(ctx, cfg.RedisURL, cachePrefix)
	if err != nil {
		return nil, nil, err
	}
	return r, r, nil
}
