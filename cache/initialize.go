package cache

import (
	"task-service/config"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeCache connects the configured backend. Caching is an optimisation
// only, so an empty CACHE_TYPE or a backend that cannot be reached yields nil
// and the service runs uncached.
func InitializeCache(cfg config.CacheConfig) cache.Cache {
	if cfg.Type == "" {
		logger.Info("Avatar cache disabled")
		return nil
	}

	c, err := cache.New(cache.Config{
		Type:          cfg.Type,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache, continuing without it", zap.Error(err))
		return nil
	}

	logger.Info("Avatar cache initialized", zap.String("type", cfg.Type))
	return c
}
