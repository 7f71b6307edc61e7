// Package cache is the streak cache: a TTL-bounded, best-effort accelerator
// in front of the durable streak summaries. Entries may vanish at any time
// (expiry, eviction, restart) without data loss; the streak service treats
// every miss as "recompute from the store".
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/config"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
// Callers use errors.Is to distinguish a true miss from a backend failure.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key-value contract the streak service needs: get, set with
// expiry, delete. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StreakKey returns the cache key holding a habit's serialized StreakSummary.
func StreakKey(habitID string) string {
	return "streak:" + habitID
}

// New builds the configured cache backend and verifies connectivity.
func New(cfg *config.Config, logger internal.Logger) (Cache, error) {
	switch cfg.CacheBackend {
	case "redis":
		c := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			logger.Errorf("cache: redis ping failed: %v", err)
			return nil, err
		}
		logger.Infof("cache: connected to redis at %s", cfg.RedisAddr)
		return c, nil
	case "memory":
		return NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
