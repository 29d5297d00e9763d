package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"teamcollab-api/internal/config"
)

// NewRedis connects to Redis when a URL is configured. Returns nil when the
// deployment is single-process and Redis is not set up; callers treat a nil
// client as "local only".
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
