package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzplot/config"
)

type RedisParams struct {
	fx.In

	Config *config.AppConfig
	Logger *zap.Logger
}

// NewRedisClient connects the series cache. It returns nil without REDIS_URL
// or when the server does not answer.
func NewRedisClient(p RedisParams) *redis.Client {
	if p.Config.RedisURL == "" {
		return nil
	}
	client, err := newRedisClient(p.Config.RedisURL)
	if err != nil {
		p.Logger.Warn("Failed to create Redis client, series cache disabled", zap.Error(err))
		return nil
	}

	p.Logger.Debug("Redis client created successfully")
	return client
}

func newRedisClient(redisUrl string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisUrl)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(options)

	// Test the connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
