package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Options describes how to reach Redis
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient configures a Redis client and checks the connection.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("redis host must not be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}
