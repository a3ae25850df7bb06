package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lennartwolf/tippliga/models"
)

// LeaderboardCache stores rendered leaderboards. A cache failure must never
// break a leaderboard read, so Get and Set swallow backend errors and only
// log them; InvalidateAll reports its error because the recompute job wants
// to know about stale boards.
type LeaderboardCache interface {
	Get(ctx context.Context, groupID int) ([]models.LeaderboardEntry, bool)
	Set(ctx context.Context, groupID int, entries []models.LeaderboardEntry)
	InvalidateAll(ctx context.Context) error
}

const leaderboardVersionKey = "leaderboard:version"

type redisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLeaderboardCache caches leaderboards under version-stamped keys.
// Invalidation bumps the version counter, which orphans every old key; the
// TTL cleans those up.
func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) LeaderboardCache {
	return &redisLeaderboardCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisLeaderboardCache) key(ctx context.Context, groupID int) (string, error) {
	version, err := c.client.Get(ctx, leaderboardVersionKey).Result()
	if err != nil {
		if err == redis.Nil {
			version = "0"
		} else {
			return "", err
		}
	}
	return fmt.Sprintf("leaderboard:%d:v%s", groupID, version), nil
}

func (c *redisLeaderboardCache) Get(ctx context.Context, groupID int) ([]models.LeaderboardEntry, bool) {
	key, err := c.key(ctx, groupID)
	if err != nil {
		c.logger.Warn("leaderboard cache unavailable", slog.Any("error", err))
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("leaderboard cache read failed", slog.Any("error", err))
		}
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		c.logger.Warn("leaderboard cache entry corrupt", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return entries, true
}

func (c *redisLeaderboardCache) Set(ctx context.Context, groupID int, entries []models.LeaderboardEntry) {
	key, err := c.key(ctx, groupID)
	if err != nil {
		return
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("failed to encode leaderboard for cache", slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("leaderboard cache write failed", slog.Any("error", err))
	}
}

func (c *redisLeaderboardCache) InvalidateAll(ctx context.Context) error {
	return c.client.Incr(ctx, leaderboardVersionKey).Err()
}
