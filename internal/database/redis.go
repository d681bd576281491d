package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. It returns nil, nil when Redis is not
// configured; callers treat a nil client as "feature disabled".
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Use Redis URL if provided (for production deployments)
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("connected to Redis", map[string]interface{}{"addr": opts.Addr})
	return client, nil
}
