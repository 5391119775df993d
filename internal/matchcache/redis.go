package matchcache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Redis shares scores between engine instances.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (int, bool) {
	n, err := r.rdb.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		log.Printf("[matchcache] redis get key=%s err=%v", key, err)
		return 0, false
	}
	return n, true
}

func (r *Redis) Set(ctx context.Context, key string, score int) {
	if err := r.rdb.Set(ctx, key, score, r.ttl).Err(); err != nil {
		log.Printf("[matchcache] redis set key=%s err=%v", key, err)
	}
}
