package pdfcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pdfhandoff:"

// RedisStore is the shared Store for multi-instance deployments. Expiry is
// server-side via the key TTL, so Sweep has nothing to do.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Store(ctx context.Context, payloadBase64 string) (string, error) {
	id := uuid.New().String()

	if err := s.client.Set(ctx, redisKeyPrefix+id, payloadBase64, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("pdfcache: redis set: %w", err)
	}

	return id, nil
}

func (s *RedisStore) Retrieve(ctx context.Context, id string) (string, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("pdfcache: redis get: %w", err)
	}

	return payload, nil
}

func (s *RedisStore) Sweep(context.Context) int {
	return 0
}
