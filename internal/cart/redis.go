package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each cart in a Redis hash keyed by session identifier.
// Redis executes commands on a key serially, which gives the per-key
// mutation ordering the Store contract requires. Carts expire with the
// session TTL instead of living forever.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a cart store backed by the given Redis client
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the stored mapping for the key, empty if none exists
func (s *RedisStore) Get(ctx context.Context, key string) (map[uuid.UUID]int64, error) {
	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items := make(map[uuid.UUID]int64, len(fields))
	for field, value := range fields {
		productID, err := uuid.Parse(field)
		if err != nil {
			// Foreign field in the hash; skip rather than fail the read
			continue
		}
		quantity, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		items[productID] = quantity
	}
	return items, nil
}

// Add merges quantity into the existing entry via HINCRBY
func (s *RedisStore) Add(ctx context.Context, key string, productID uuid.UUID, quantity int64) error {
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, s.key(key), productID.String(), quantity)
	pipe.Expire(ctx, s.key(key), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

// Set replaces the stored quantity for the product
func (s *RedisStore) Set(ctx context.Context, key string, productID uuid.UUID, quantity int64) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(key), productID.String(), quantity)
	pipe.Expire(ctx, s.key(key), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}

// Remove deletes the entry if present
func (s *RedisStore) Remove(ctx context.Context, key string, productID uuid.UUID) error {
	if err := s.client.HDel(ctx, s.key(key), productID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}

// Clear deletes the cart entirely
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, key)
}
