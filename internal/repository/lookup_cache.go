package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// Lookups are the small reference lists the search flows offer as choices.
type Lookups interface {
	ListGenres(ctx context.Context) ([]model.Genre, error)
	ListRatings(ctx context.Context) ([]string, error)
	YearBounds(ctx context.Context) (model.YearRange, error)
}

// LookupCache keeps Lookups results in Redis for a fixed TTL. Film counts
// and pages never go through it. A nil client, a miss, or any Redis error
// falls through to the wrapped source and never fails the call.
type LookupCache struct {
	next   Lookups
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

// NewLookupCache wraps next. rdb may be nil, which disables caching.
func NewLookupCache(next Lookups, rdb *redis.Client, prefix string, ttl time.Duration, log *slog.Logger) *LookupCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &LookupCache{next: next, rdb: rdb, prefix: prefix, ttl: ttl, log: log}
}

// ListGenres returns the cached genre list or loads it.
func (c *LookupCache) ListGenres(ctx context.Context) ([]model.Genre, error) {
	var out []model.Genre
	if c.get(ctx, "genres", &out) {
		return out, nil
	}
	out, err := c.next.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, "genres", out)
	return out, nil
}

// ListRatings returns the cached rating list or loads it.
func (c *LookupCache) ListRatings(ctx context.Context) ([]string, error) {
	var out []string
	if c.get(ctx, "ratings", &out) {
		return out, nil
	}
	out, err := c.next.ListRatings(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, "ratings", out)
	return out, nil
}

// YearBounds returns the cached year bounds or loads them. ErrNoYearBounds
// is not cached.
func (c *LookupCache) YearBounds(ctx context.Context) (model.YearRange, error) {
	var out model.YearRange
	if c.get(ctx, "years", &out) {
		return out, nil
	}
	out, err := c.next.YearBounds(ctx)
	if err != nil {
		return model.YearRange{}, err
	}
	c.set(ctx, "years", out)
	return out, nil
}

func (c *LookupCache) key(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + ":" + name
}

func (c *LookupCache) get(ctx context.Context, name string, dst any) bool {
	if c.rdb == nil {
		return false
	}
	bs, err := c.rdb.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("lookup cache read failed", "key", c.key(name), "err", err)
		}
		return false
	}
	if err := json.Unmarshal(bs, dst); err != nil {
		c.log.Warn("lookup cache entry unreadable", "key", c.key(name), "err", err)
		return false
	}
	return true
}

func (c *LookupCache) set(ctx context.Context, name string, v any) {
	if c.rdb == nil {
		return
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.SetEx(ctx, c.key(name), bs, c.ttl).Err(); err != nil {
		c.log.Warn("lookup cache write failed", "key", c.key(name), "err", err)
	}
}
