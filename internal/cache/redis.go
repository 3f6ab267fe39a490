package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/luxentra/internal/models"
)

const cartKeyPrefix = "cart:"

// RedisCartCache stores carts in Redis with a TTL.
type RedisCartCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartCache connects to Redis using the given URL.
func NewRedisCartCache(redisURL string, ttl time.Duration) (*RedisCartCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCartCache{client: client, ttl: ttl}, nil
}

func (c *RedisCartCache) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	raw, err := c.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCartCache) Set(ctx context.Context, userID string, items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cartKeyPrefix+userID, raw, c.ttl).Err()
}

func (c *RedisCartCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, cartKeyPrefix+userID).Err()
}
