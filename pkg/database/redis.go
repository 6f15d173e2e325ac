package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/agentbase-hq/agentbase-engine/pkg/config"
)

// NewRedisClient creates a new Redis client for the MLS search cache.
// Returns nil if Redis is not configured (host is empty); the search
// service treats a nil client as "caching disabled".
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
