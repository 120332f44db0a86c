// internal/store/catalog_cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/readiness"
)

// RoleCatalogCachePrefix covers every version of the cached catalog.
const RoleCatalogCachePrefix = "rekonet:roles:"

const RoleCatalogCacheKey = RoleCatalogCachePrefix + "v1"

// CachedRoleCatalog keeps the role catalog in Redis as one JSON blob.
// Redis failures are logged and fall through to the source.
type CachedRoleCatalog struct {
	source RoleCatalog
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRoleCatalog(source RoleCatalog, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedRoleCatalog {
	return &CachedRoleCatalog{
		source: source,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "role-catalog-cache"}),
	}
}

func (c *CachedRoleCatalog) ListRoles(ctx context.Context) ([]readiness.RoleProfile, error) {
	if c.redis != nil {
		val, err := c.redis.Get(ctx, RoleCatalogCacheKey).Result()
		switch {
		case err == nil:
			var roles []readiness.RoleProfile
			if jsonErr := json.Unmarshal([]byte(val), &roles); jsonErr == nil {
				return roles, nil
			}
			c.logger.Warn("discarding undecodable role catalog cache entry", map[string]interface{}{
				"key": RoleCatalogCacheKey,
			})
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("role catalog cache unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	roles, err := c.source.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		data, _ := json.Marshal(roles)
		if err := c.redis.Set(ctx, RoleCatalogCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache role catalog", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return roles, nil
}

// Invalidate drops the cached catalog so the next read goes to the source.
func (c *CachedRoleCatalog) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, RoleCatalogCacheKey).Err()
}
