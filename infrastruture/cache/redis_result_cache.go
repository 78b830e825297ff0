// Package cache stores search results in Redis, keyed by grid fingerprint.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/pathsearch"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "pathsearch:result:"
	lockSuffix = ":lock"
	lockExpiry = 10 * time.Second
)

var (
	ErrNilClient = errors.New("redis client is nil")
	ErrNilLogger = errors.New("logger is nil")
)

type cachedResult struct {
	Path  []grid.Coordinate `json:"path"`
	Order []grid.Coordinate `json:"order"`
	Found bool              `json:"found"`
}

// RedisResultCache is a read-through cache of search results with TTL.
// A redsync mutex per key keeps concurrent callers from computing the same
// result twice, across processes.
type RedisResultCache struct {
	client *redis.Client
	locker *redsync.Redsync
	logger i.Logger
	ttl    time.Duration
}

// NewRedisResultCache initializes a RedisResultCache with the provided Redis
// client and TTL. Failed writes are reported to logger.
func NewRedisResultCache(client *redis.Client, ttlSeconds int, logger i.Logger) (i.ResultCache, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	cache := &RedisResultCache{
		client: client,
		logger: logger,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	cache.locker = redsync.New(pool)
	return cache, nil
}

// GetOrCompute returns the result stored under key or computes and stores it.
func (c *RedisResultCache) GetOrCompute(ctx context.Context, key string, compute func() (pathsearch.Result, error)) (pathsearch.Result, error) {
	key = keyPrefix + key

	if result, ok, err := c.get(ctx, key); err != nil || ok {
		return result, err
	}

	mutex := c.locker.NewMutex(key+lockSuffix, redsync.WithExpiry(lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return pathsearch.Result{}, err
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	// Another holder of the lock may have stored it meanwhile.
	if result, ok, err := c.get(ctx, key); err != nil || ok {
		return result, err
	}

	result, err := compute()
	if err != nil {
		return pathsearch.Result{}, err
	}

	// The result is good even when it cannot be stored.
	payload, err := json.Marshal(cachedResult{Path: result.Path, Order: result.Order, Found: result.Found})
	if err != nil {
		c.logger.Warning(fmt.Sprintf("encoding result %s: %s", key, err))
		return result, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warning(fmt.Sprintf("storing result %s: %s", key, err))
	}

	return result, nil
}

// get reports a miss for absent keys and for values that no longer decode.
func (c *RedisResultCache) get(ctx context.Context, key string) (pathsearch.Result, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return pathsearch.Result{}, false, nil
	}
	if err != nil {
		return pathsearch.Result{}, false, err
	}

	var cached cachedResult
	if err := json.Unmarshal(payload, &cached); err != nil {
		return pathsearch.Result{}, false, nil
	}
	return pathsearch.NewResult(cached.Path, cached.Order, cached.Found), true, nil
}
