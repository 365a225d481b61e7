package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	redisclient "github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/redis"
)

// scanBatch is the COUNT hint passed to SCAN during pattern deletes
const scanBatch = 200

// RedisAdapter implements the CacheProvider interface using Redis
type RedisAdapter struct {
	client *redisclient.Client
}

// Ensure RedisAdapter implements CacheProvider
var _ providers.CacheProvider = (*RedisAdapter)(nil)

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) *RedisAdapter {
	return &RedisAdapter{
		client: client,
	}
}

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, nil
}

// GetMulti retrieves several values with a single MGET
func (a *RedisAdapter) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := a.client.Client().MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get multiple keys from cache: %w", err)
	}

	for i, v := range values {
		if s, ok := v.(string); ok {
			out[keys[i]] = []byte(s)
		}
	}
	return out, nil
}

// Set stores a value in cache with expiration
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// SetMulti stores several values in one pipeline
func (a *RedisAdapter) SetMulti(ctx context.Context, items map[string][]byte, expirationSeconds int) error {
	if len(items) == 0 {
		return nil
	}
	expiration := time.Duration(expirationSeconds) * time.Second

	_, err := a.client.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range items {
			pipe.Set(ctx, key, value, expiration)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set multiple keys in cache: %w", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// DeletePattern removes every key matching pattern. It walks the keyspace
// with SCAN so large caches do not block the server.
func (a *RedisAdapter) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := a.client.Client().Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := a.client.Client().Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Exists checks if a key exists in cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence in cache: %w", err)
	}
	return result > 0, nil
}
