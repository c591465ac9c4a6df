package server

import (
	"context"
	"fmt"

	"github.com/matzehuels/chartlayout/pkg/cache"
)

// CacheConfig selects the cache backends of a server.
type CacheConfig struct {
	// MemoryEntries bounds the in-process front cache.
	MemoryEntries int
	// RedisURL enables a shared Redis tier (redis://host:port/db).
	RedisURL string
	// RedisPrefix namespaces the keys in Redis.
	RedisPrefix string
	// MongoURI enables a durable MongoDB tier.
	MongoURI      string
	MongoDatabase string
}

// NewCache builds the cache stack: an in-memory front, then Redis, then
// MongoDB, each tier present only when configured. On error every tier
// already opened is closed.
func NewCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	var backs []cache.Cache
	closeAll := func() {
		for _, c := range backs {
			_ = c.Close()
		}
	}

	if cfg.RedisURL != "" {
		prefix := cfg.RedisPrefix
		if prefix == "" {
			prefix = "chartlayout:"
		}
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, prefix)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		backs = append(backs, rc)
	}
	if cfg.MongoURI != "" {
		mc, err := cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, "")
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("mongo cache: %w", err)
		}
		backs = append(backs, mc)
	}

	return layerCaches(cache.NewMemoryCache(cfg.MemoryEntries), backs...), nil
}

// layerCaches stacks caches from fastest to slowest.
func layerCaches(front cache.Cache, backs ...cache.Cache) cache.Cache {
	if len(backs) == 0 {
		return front
	}
	return cache.NewTieredCache(front, layerCaches(backs[0], backs[1:]...), 0)
}
