package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// StatsCache keeps recently computed team stats.
type StatsCache interface {
	Get(ctx context.Context, teamID string) (*TeamStats, bool)
	Set(ctx context.Context, teamID string, stats *TeamStats)
	Invalidate(ctx context.Context, teamID string)
}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisStatsCache connects to url (redis://...) and checks the connection.
func NewRedisStatsCache(ctx context.Context, url string, ttl time.Duration, log *logrus.Logger) (*RedisStatsCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStatsCache{client: client, ttl: ttl, log: log}, nil
}

func statsKey(teamID string) string { return "healthplus:team-stats:" + teamID }

func (c *RedisStatsCache) Get(ctx context.Context, teamID string) (*TeamStats, bool) {
	raw, err := c.client.Get(ctx, statsKey(teamID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("team_id", teamID).Warn("stats cache read failed")
		}
		return nil, false
	}
	var stats TeamStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, teamID string, stats *TeamStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey(teamID), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("team_id", teamID).Warn("stats cache write failed")
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, teamID string) {
	if err := c.client.Del(ctx, statsKey(teamID)).Err(); err != nil {
		c.log.WithError(err).WithField("team_id", teamID).Warn("stats cache invalidate failed")
	}
}

func (c *RedisStatsCache) Close() error { return c.client.Close() }
