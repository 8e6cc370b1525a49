package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a short-TTL cache for computed availability responses. Keys are
// slots:<eventTypeID>:... so invalidation can drop every cached range of one
// event type at once.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string, dest any) bool {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("[cache] unmarshal %s: %v", key, err)
		return false
	}
	return true
}

func (r *Redis) Set(ctx context.Context, key string, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		log.Printf("[cache] marshal %s: %v", key, err)
		return
	}
	if err := r.client.Set(ctx, key, body, r.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}

func (r *Redis) InvalidateEventType(ctx context.Context, eventTypeID uint) {
	pattern := fmt.Sprintf("slots:%d:*", eventTypeID)
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		log.Printf("[cache] scan %s: %v", pattern, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] del %s: %v", pattern, err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
