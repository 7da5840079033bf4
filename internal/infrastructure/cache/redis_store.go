package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements Store on Redis. Each tag is a Redis set holding
// the keys stored under it, so any instance can invalidate for all.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg RedisConfig, keyPrefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreWithClient(client, keyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "storefront:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Client exposes the connection for other Redis-backed components
func (s *RedisStore) Client() redis.UniversalClient { return s.client }

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) valueKey(key string) string { return s.keyPrefix + "v:" + key }
func (s *RedisStore) tagKey(tag string) string   { return s.keyPrefix + "t:" + tag }

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.valueKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key: %w", err)
	}
	return val, true, nil
}

// Set implements Store. The tag sets outlive their members by one TTL so
// that late invalidations still find them.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	vk := s.valueKey(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, vk, value, ttl)
		for _, tag := range tags {
			tk := s.tagKey(tag)
			pipe.SAdd(ctx, tk, vk)
			if ttl > 0 {
				pipe.Expire(ctx, tk, 2*ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write cache key: %w", err)
	}
	return nil
}

// InvalidateTags implements Store
func (s *RedisStore) InvalidateTags(ctx context.Context, tags ...string) (int, error) {
	removed := 0
	for _, tag := range tags {
		tk := s.tagKey(tag)
		members, err := s.client.SMembers(ctx, tk).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to read tag %s: %w", tag, err)
		}

		pipe := s.client.TxPipeline()
		var del *redis.IntCmd
		if len(members) > 0 {
			del = pipe.Del(ctx, members...)
		}
		pipe.Del(ctx, tk)
		if _, err := pipe.Exec(ctx); err != nil {
			return removed, fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
		}
		if del != nil {
			removed += int(del.Val())
		}
	}
	return removed, nil
}

// Close implements Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
