package handoff

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"time"
)

const redisKeyPrefix = "pwd-analyzer:handoff:"

// RedisStore shares handoffs between several API instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Put(ctx context.Context, password string) (string, error) {
	token := uuid.NewString()
	if err := r.client.Set(ctx, redisKeyPrefix+token, password, r.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (r *RedisStore) Take(ctx context.Context, token string) (string, error) {
	password, err := r.client.GetDel(ctx, redisKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return password, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
