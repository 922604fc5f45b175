// Package cache keeps short-lived provider state in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
	"github.com/redis/go-redis/v9"
)

// Connect creates a Redis client and verifies it answers PING.
func Connect(ctx context.Context, cfg *config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	logger.Info("connecting to redis", "addr", cfg.Addr, "db", cfg.DB)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// RedisTokenCache stores PayPal access tokens keyed by merchant client id.
// Entries expire with the token, so a hit is always usable.
type RedisTokenCache struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenCache(client *redis.Client, prefix string) *RedisTokenCache {
	return &RedisTokenCache{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisTokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET error: %w", err)
	}

	return token, true, nil
}

func (r *RedisTokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET error: %w", err)
	}
	return nil
}

func (r *RedisTokenCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis DEL error: %w", err)
	}
	return nil
}

var _ application.TokenCache = (*RedisTokenCache)(nil)

func (r *RedisTokenCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
