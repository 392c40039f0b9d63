// Package cache holds a Redis-backed cache for class performance reports.
// Reports only change when a sync run persists new logs, so cached entries
// are invalidated wholesale after each successful run.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/config"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/steamid"
)

type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New connects to Redis when a URL is configured. Without one it returns
// nil and the report service serves straight from the database.
func New(cfg *config.Config, logger zerolog.Logger) (*ReportCache, error) {
	if cfg.RedisURL == "" {
		logger.Info().Msg("no redis url configured, report cache disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ReportCache{client: client, ttl: cfg.CacheTTL, logger: logger}, nil
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

func (c *ReportCache) Close() error {
	return c.client.Close()
}

// GetClassPerformance returns the cached report and whether it was present.
func (c *ReportCache) GetClassPerformance(ctx context.Context, id steamid.SteamID, cls class.Class, limit int) ([]domain.ClassPerformance, bool) {
	data, err := c.client.Get(ctx, reportKey(id, cls, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("report cache read failed")
		}
		return nil, false
	}

	var report []domain.ClassPerformance
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn().Err(err).Msg("cached report undecodable, dropping")
		return nil, false
	}
	return report, true
}

func (c *ReportCache) SetClassPerformance(ctx context.Context, id steamid.SteamID, cls class.Class, limit int, report []domain.ClassPerformance) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to marshal report for cache")
		return
	}
	if err := c.client.Set(ctx, reportKey(id, cls, limit), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("report cache write failed")
	}
}

// Invalidate drops every cached report. Called after a sync run persists
// new logs.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, reportPattern(), 0).Iterator()
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
	return c.client.Del(ctx, keys...).Err()
}
