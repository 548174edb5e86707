package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/utils"
)

// Cache is the Redis-backed key/value store behind the catalog cache
// gateway. Values are opaque strings; TTL handling is left to Redis.
type Cache struct {
	client *goredis.Client
	log    *logger.Logger
}

func NewCache(baseLog *logger.Logger) (*Cache, error) {
	log := baseLog.With("client", "RedisCache")
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := utils.GetEnv("REDIS_PASSWORD", "", log)
	db := utils.GetEnvAsInt("REDIS_DB", 0, log)

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("connected to redis", "addr", addr, "db", db)
	return &Cache{client: client, log: log}, nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error { return c.client.Close() }
