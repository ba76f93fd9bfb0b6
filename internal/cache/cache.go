// Package cache provides the Redis-backed result cache. Keys are namespaced
// by purpose (profile aliases, progress, raw adapter results, pending task
// markers) and each namespace carries its own TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/sells-group/companyintel/internal/config"
	"github.com/sells-group/companyintel/internal/model"
)

// Cache wraps a Redis client with JSON values and namespaced keys.
type Cache struct {
	rdb  *redis.Client
	ttls config.CacheConfig
}

// New creates a Cache from Redis connection settings.
func New(redisCfg config.RedisConfig, ttls config.CacheConfig) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}),
		ttls: ttls,
	}
}

// NewWithClient creates a Cache over an existing Redis client. Used by tests
// with miniredis.
func NewWithClient(rdb *redis.Client, ttls config.CacheConfig) *Cache {
	return &Cache{rdb: rdb, ttls: ttls}
}

// Ping verifies connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get reads key into out. Returns (false, nil) on a miss.
func (c *Cache) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "cache: get "+key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, eris.Wrap(err, "cache: decode "+key)
	}
	return true, nil
}

// Set writes key with the given TTL. A zero TTL means no expiry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return eris.Wrap(err, "cache: encode "+key)
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return eris.Wrap(err, "cache: set "+key)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return eris.Wrap(err, "cache: delete "+key)
	}
	return nil
}

// TTL reports the remaining lifetime of a key.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, eris.Wrap(err, "cache: ttl "+key)
	}
	return d, nil
}

// Keys lists keys matching pattern via SCAN.
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, eris.Wrap(err, "cache: scan "+pattern)
	}
	return keys, nil
}

// ProfileTTL is the expiry for profile alias keys.
func (c *Cache) ProfileTTL() time.Duration {
	return time.Duration(c.ttls.ProfileTTLSecs) * time.Second
}

// ProgressTTL is the expiry for progress records.
func (c *Cache) ProgressTTL() time.Duration {
	return time.Duration(c.ttls.ProgressTTLSecs) * time.Second
}

// ResearchTTL is the expiry for raw deep-research results.
func (c *Cache) ResearchTTL() time.Duration {
	return time.Duration(c.ttls.ResearchTTLDays) * 24 * time.Hour
}

// BrowsingTTL is the expiry for raw deep-browsing results.
func (c *Cache) BrowsingTTL() time.Duration {
	return time.Duration(c.ttls.BrowsingTTLDays) * 24 * time.Hour
}

// SearchTTL is the expiry for raw search results.
func (c *Cache) SearchTTL() time.Duration {
	return time.Duration(c.ttls.SearchTTLDays) * 24 * time.Hour
}

// PendingTTL is the expiry for pending-task markers.
func (c *Cache) PendingTTL() time.Duration {
	return time.Duration(c.ttls.PendingTTLSecs) * time.Second
}

// SetProfile writes a profile under all three of its key aliases. Readers of
// any alias observe the same enrichment state after every write. The aliases
// go in one MULTI/EXEC so a failed write leaves none of them behind.
func (c *Cache) SetProfile(ctx context.Context, profile *model.CompanyProfile, sessionID string) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return eris.Wrap(err, "cache: encode profile "+profile.ID)
	}
	ttl := c.ProfileTTL()
	pipe := c.rdb.TxPipeline()
	for _, key := range []string{
		ProfileKey(profile.ID),
		ProfileKey(profile.Slug),
		ProfileKey(sessionID),
	} {
		pipe.Set(ctx, key, data, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return eris.Wrap(err, "cache: set profile "+profile.ID)
	}
	return nil
}

// GetProfile reads a profile by any alias (id, slug, or session).
func (c *Cache) GetProfile(ctx context.Context, alias string) (*model.CompanyProfile, bool, error) {
	var profile model.CompanyProfile
	found, err := c.Get(ctx, ProfileKey(alias), &profile)
	if err != nil || !found {
		return nil, false, err
	}
	return &profile, true, nil
}
