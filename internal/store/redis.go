package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const generatedTTL = 7 * 24 * time.Hour

// RedisStore handles Redis operations for the shared query cache, the
// generated member registry and rate limiting.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Client exposes the underlying client for the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// cacheKey returns the key for a query cache entry.
func cacheKey(key string) string {
	return fmt.Sprintf("cache:%s", key)
}

// generatedKey is the sorted set of generated member ids scored by creation time.
const generatedKey = "members:generated"

// Get returns a cached value. The bool is false on a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores a cached value that expires after ttl.
func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.client.Set(ctx, cacheKey(key), val, ttl).Err()
}

// Delete removes a cached value.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, cacheKey(key)).Err()
}

// RecordGenerated remembers a member id produced by the generate flow.
func (s *RedisStore) RecordGenerated(ctx context.Context, memberID string, at time.Time) error {
	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, generatedKey, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: memberID,
	})
	pipe.ZRemRangeByScore(ctx, generatedKey, "-inf", fmt.Sprintf("(%d", at.Add(-generatedTTL).UnixMilli()))
	pipe.Expire(ctx, generatedKey, generatedTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// RecentGenerated returns generated member ids, newest first.
func (s *RedisStore) RecentGenerated(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.client.ZRevRange(ctx, generatedKey, 0, int64(limit-1)).Result()
}
