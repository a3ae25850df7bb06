package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLock guards the recompute job against overlapping runs. Two interleaved
// recomputations of the same user could race on the aggregate write, so only
// one run may hold the lock at a time, across all instances of the service.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type redisRunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisRunLock builds a SetNX-based lock. The TTL acts as a failsafe: a
// crashed run frees the lock once the TTL expires.
func NewRedisRunLock(client *redis.Client, key string, ttl time.Duration) RunLock {
	return &redisRunLock{client: client, key: key, ttl: ttl}
}

func (l *redisRunLock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
}

func (l *redisRunLock) Release(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}
