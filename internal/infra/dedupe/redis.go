package dedupe

import (
	"context"
	"time"

	"booking-service/internal/pkg/config"
	"booking-service/internal/usecase/notify"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notification:sent:"

// RedisDeduper records delivered notifications as keys with a TTL.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

var _ notify.Deduper = (*RedisDeduper)(nil)

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisDeduper(client *redis.Client, cfg config.RedisConfig) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: cfg.DedupeTTL}
}

func (d *RedisDeduper) Acquire(ctx context.Context, key string) (bool, error) {
	return d.client.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	return d.client.Del(ctx, keyPrefix+key).Err()
}
