package s1_universe

import (
	"context"
	"time"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
	"github.com/wonny/sniper/pkg/redis"
)

// CachedSource keeps the last successful fetch of a source in Redis
type CachedSource struct {
	inner  contracts.UniverseSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps a source; a zero ttl disables caching
func NewCachedSource(inner contracts.UniverseSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, ttl: ttl, logger: log}
}

// Name returns the wrapped source name
func (c *CachedSource) Name() string { return c.inner.Name() }

// Fetch serves from cache when possible
func (c *CachedSource) Fetch(ctx context.Context) ([]string, error) {
	if c.ttl <= 0 || c.cache == nil {
		return c.inner.Fetch(ctx)
	}

	key := redis.UniverseKey(c.inner.Name())

	var symbols []string
	found, err := c.cache.Get(ctx, key, &symbols)
	if err != nil {
		c.logger.WithError(err).WithField("source", c.Name()).Warn("universe cache read failed")
	}
	if found && len(symbols) > 0 {
		c.logger.WithFields(map[string]interface{}{
			"source": c.Name(),
			"count":  len(symbols),
		}).Debug("universe served from cache")
		return symbols, nil
	}

	symbols, err = c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, symbols, c.ttl); err != nil {
		c.logger.WithError(err).WithField("source", c.Name()).Warn("universe cache write failed")
	}
	return symbols, nil
}
