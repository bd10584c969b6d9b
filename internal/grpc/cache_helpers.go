package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value behind a cache key from the service.
type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	fetchTimeout        = 15 * time.Second
	cacheWriteTimeout   = 5 * time.Second
	maxTTLJitter        = 30 * time.Second
	maxRefreshDelay     = time.Second
	maxTrackedRefreshes = 4096
)

// addTTLJitter spreads expiry by up to ±10% of ttl, capped at 30s, so keys
// written together do not expire together.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	span := min(ttl/10, maxTTLJitter)
	if span <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int64N(int64(2*span))) - span
}

// readThrough serves analytics reads from a Cacher. Concurrent misses for
// one key share a fetch; a hit refreshes the entry in the background at
// most once per half TTL.
type readThrough struct {
	cache  Cacher
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group

	mu        sync.Mutex
	refreshed map[string]time.Time
}

func newReadThrough(c Cacher, ttl time.Duration, logger *zap.Logger) *readThrough {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &readThrough{
		cache:     c,
		ttl:       ttl,
		logger:    logger,
		refreshed: make(map[string]time.Time),
	}
}

func (rt *readThrough) shouldRefresh(key string, now time.Time) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if last, ok := rt.refreshed[key]; ok && now.Sub(last) < rt.ttl/2 {
		return false
	}
	if len(rt.refreshed) >= maxTrackedRefreshes {
		rt.pruneLocked(now)
	}
	rt.refreshed[key] = now
	return true
}

// pruneLocked drops keys whose cache entry has expired by now. If every
// tracked key is still live the map is reset; the worst case is one extra
// refresh per key.
func (rt *readThrough) pruneLocked(now time.Time) {
	for k, last := range rt.refreshed {
		if now.Sub(last) >= rt.ttl {
			delete(rt.refreshed, k)
		}
	}
	if len(rt.refreshed) >= maxTrackedRefreshes {
		clear(rt.refreshed)
	}
}

func (rt *readThrough) trackedRefreshes() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.refreshed)
}

func (rt *readThrough) store(key string, value any, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()

	ttl := addTTLJitter(rt.ttl)
	if err := rt.cache.Set(ctx, key, value, ttl); err != nil {
		rt.logger.Warn("cache write failed",
			zap.String("key", key),
			zap.String("reason", reason),
			zap.Error(err))
		return
	}
	rt.logger.Debug("cache written",
		zap.String("key", key),
		zap.String("reason", reason),
		zap.Duration("ttl", ttl))
}

func refreshInBackground[T any](rt *readThrough, key string, fn FetchFunc[T]) {
	if !rt.shouldRefresh(key, time.Now()) {
		return
	}
	go func() {
		time.Sleep(rand.N(maxRefreshDelay))

		_, _, _ = rt.group.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				rt.logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			rt.store(key, value, "refresh")
			return value, nil
		})
	}()
}

// FindAndCache reads key through rt and falls back to fn on a miss. Cache
// errors are treated as misses. The shared fetch is detached from the
// caller's cancellation and bounded by fetchTimeout; each caller
// still returns as soon as its own ctx is done.
func FindAndCache[T any](ctx context.Context, rt *readThrough, key string, fn FetchFunc[T]) (T, error) {
	var zero T

	var hit T
	err := rt.cache.Get(ctx, key, &hit)
	switch {
	case err == nil:
		rt.logger.Debug("cache hit", zap.String("key", key))
		refreshInBackground(rt, key, fn)
		return hit, nil
	case errors.Is(err, redis.Nil):
		rt.logger.Debug("cache miss", zap.String("key", key))
	default:
		rt.logger.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
	}

	ch := rt.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		value, err := fn(fetchCtx)
		if err != nil {
			return nil, err
		}
		go rt.store(key, value, "miss")
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		value, ok := res.Val.(T)
		if !ok {
			rt.logger.Error("singleflight type mismatch", zap.String("key", key))
			return zero, fmt.Errorf("type mismatch for key %q", key)
		}
		if res.Shared {
			rt.logger.Debug("singleflight shared result", zap.String("key", key))
		}
		return value, nil
	}
}
