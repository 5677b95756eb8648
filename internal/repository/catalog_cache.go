package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const catalogKeyPrefix = "skillkart:catalog:"

// CatalogCache 路线目录查询的 Redis 缓存，Redis 为 nil 时所有操作均为空操作
type CatalogCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{Redis: rdb, TTL: ttl}
}

func (c *CatalogCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.Redis == nil {
		return false, nil
	}
	val, err := c.Redis.Get(ctx, catalogKeyPrefix+key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CatalogCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.Redis == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, catalogKeyPrefix+key, data, c.TTL).Err()
}

// Invalidate 路线增删改后清空整个目录缓存
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || c.Redis == nil {
		return nil
	}
	iter := c.Redis.Scan(ctx, 0, catalogKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Redis.Del(ctx, keys...).Err()
}
