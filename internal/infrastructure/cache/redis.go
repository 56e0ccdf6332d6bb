package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

// RedisStore keeps values in Redis so every API instance shares them
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects to Redis and waits until it answers PING
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ping := func() error {
		return client.Ping(ctx).Err()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	notify := func(err error, wait time.Duration) {
		if logger != nil {
			logger.Warn("⏳ Redis not ready, retrying",
				zap.String("addr", cfg.GetRedisAddr()),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if logger != nil {
		logger.Info("✅ Connected to Redis", zap.String("addr", cfg.GetRedisAddr()))
	}
	return client, nil
}

// NewRedisStore wraps a client. Keys are namespaced with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get retrieves a value by key
func (rs *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := rs.client.Get(ctx, rs.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

// Set stores a value without expiry
func (rs *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := rs.client.Set(ctx, rs.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
