// Package cache provides tag-invalidated read-through caching of storefront data.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Cache tags. Webhook revalidation invalidates every key stored under a tag.
const (
	TagProducts    = "products"
	TagCollections = "collections"
	TagContent     = "content"
)

// Store is a byte cache whose entries can be dropped by tag
type Store interface {
	// Get returns the value stored at key and whether it was found
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value at key for ttl and indexes it under tags
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	// InvalidateTags removes every entry indexed under any of tags and returns how many were removed
	InvalidateTags(ctx context.Context, tags ...string) (int, error)
	Close() error
}

// Remember returns the cached value at key, or calls load and caches its
// result. A failing cache is treated as a miss so reads keep working when
// the cache backend is down; only load errors are returned. Cache failures
// are logged through the context logger.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, tags []string, load func(context.Context) (T, error)) (T, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	switch {
	case err != nil:
		logger.L(ctx).Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true, nil
		}
		logger.L(ctx).Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
	}

	v, err := load(ctx)
	if err != nil {
		return v, false, err
	}
	raw, err = json.Marshal(v)
	if err != nil {
		return v, false, fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw, ttl, tags...); err != nil {
		logger.L(ctx).Warn("Cache write failed", zap.String("key", key), zap.Strings("tags", tags), zap.Error(err))
	}
	return v, false, nil
}
