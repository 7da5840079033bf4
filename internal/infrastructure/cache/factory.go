package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend names accepted by the factory
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// FactoryConfig selects and sizes the cache backend
type FactoryConfig struct {
	Backend    string
	Redis      RedisConfig
	KeyPrefix  string
	MaxEntries int
	TTL        time.Duration
}

// StoreFactory creates cache stores based on configuration
type StoreFactory struct {
	config                FactoryConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption configures the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg FactoryConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		config:                cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the configured backend. With the redis backend it
// falls back to memory when Redis is unreachable and fallback is allowed.
func (f *StoreFactory) CreateStore(ctx context.Context) (Store, error) {
	if f.config.Backend != BackendRedis {
		f.logger.Info("using in-memory cache", zap.Int("max_entries", f.config.MaxEntries))
		return f.memory(), nil
	}

	store, err := NewRedisStore(ctx, f.config.Redis, f.config.KeyPrefix)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", f.config.Redis.Addr))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Revalidation webhooks will only clear the receiving instance.",
		zap.Error(err),
	)
	return f.memory(), nil
}

func (f *StoreFactory) memory() *MemoryStore {
	// entries never outlive four default TTLs
	return NewMemoryStore(f.config.MaxEntries, 4*f.config.TTL)
}
