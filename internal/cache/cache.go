package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/amoylab/toolserver/internal/common/config"

	"go.uber.org/zap"
)

// Cache stores upstream response bodies for a limited time
type Cache interface {
	// Get returns the cached bytes for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases any connection held by the cache
	Close() error
}

// Type represents the supported cache backends
type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
)

// New creates the cache selected by cfg
func New(logger *zap.Logger, cfg *config.CacheConfig) (Cache, error) {
	switch Type(cfg.Type) {
	case TypeMemory, "":
		return NewMemoryCache(), nil
	case TypeRedis:
		return NewRedisCache(logger, cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache type %q", cfg.Type)
	}
}
