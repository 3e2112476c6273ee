package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default is the key-value surface the services need from Redis. A zero ttl
// keeps the key forever.
type Default interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type RedisRepository struct {
	Default
}

func New(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb),
	}
}
