package repository

import (
	"context"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the redirect-path link cache. The service runs fine
// without it; callers treat a nil client as cache-off.
func InitRedis(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}
