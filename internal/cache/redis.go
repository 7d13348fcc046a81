package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"workbench/internal/config"
)

// RedisCache is a ViewCache backed by redis, for deployments where cached
// views should survive restarts or be shared between replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg *config.Config) *RedisCache {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisCache{client: c, ttl: time.Duration(cfg.CacheTTLSec) * time.Second}
}

func (r *RedisCache) Close() error { return r.client.Close() }

func (r *RedisCache) Get(ctx context.Context, key string) (*View, bool, error) {
	val, err := r.client.Get(ctx, "view:"+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var view View
	if err := json.Unmarshal([]byte(val), &view); err != nil {
		return nil, false, err
	}
	return &view, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, view *View) error {
	b, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "view:"+key, b, r.ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = "view:" + key
	}
	return r.client.Del(ctx, prefixed...).Err()
}
