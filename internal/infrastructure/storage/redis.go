package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis is a Store backed by a shared Redis instance, for deployments where
// several gateway replicas must observe the same sessions. Backend errors
// are logged at debug and reported as absence.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis wraps an already-connected Redis client.
func NewRedis(client *redis.Client, log zerolog.Logger) *Redis {
	return &Redis{client: client, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Debug().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Debug().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.Debug().Err(err).Str("key", key).Msg("redis del failed")
	}
}
