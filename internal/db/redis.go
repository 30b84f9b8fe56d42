package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-redis/redis/v8"
)

// RedisOptions accepts either a bare host:port or a redis:// URL.
func RedisOptions(conn string) (*redis.Options, error) {
	if strings.Contains(conn, "://") {
		opts, err := redis.ParseURL(conn)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: conn}, nil
}

// NewRedisClient connects to conn and pings it before returning.
func NewRedisClient(ctx context.Context, conn string) (*redis.Client, error) {
	opts, err := RedisOptions(conn)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", opts.Addr, err)
	}
	slog.InfoContext(ctx, "redis connected", "addr", opts.Addr, "db", opts.DB)

	return client, nil
}
