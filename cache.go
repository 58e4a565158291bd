package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Flush(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	p, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, p, expiration).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *RedisCache) Flush(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

// Cache expirations: a forecast is considered fresh for half an hour; the
// current-AQI snapshot lives longer since the dashboard polls it constantly.
const (
	forecastCacheTTL   = 30 * time.Minute
	currentAQICacheTTL = 2 * time.Hour
)

func forecastCacheKey(slug string, horizonHours int) string {
	return fmt.Sprintf("forecast:%s:%d", slug, horizonHours)
}

func currentAQICacheKey(slug string) string {
	return fmt.Sprintf("current_aqi:%s", slug)
}
