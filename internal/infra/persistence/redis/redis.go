// Package redis implements the OAuth token key-value store on Redis.
package redis

import (
	"context"
	"log/slog"
	"time"

	"orienteer/config"
	"orienteer/internal/domain/lifecycle"
	"orienteer/internal/errors"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

const (
	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
	poolTimeout  = 4 * time.Second
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Redis client and binds its ping/close to the fx lifecycle.
func New(params Params) (*goredis.Client, error) {
	if params.Config.Redis == nil || params.Config.Redis.URL == "" {
		return nil, errors.New("redis url must be configured")
	}

	client, err := NewClient(params.Config.Redis)
	if err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}
			params.Logger.Info("Redis connected", slog.String("addr", client.Options().Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

// NewClient parses the configured URL and applies pool settings.
func NewClient(cfg *config.RedisConfig) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis URL")
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = readTimeout
	opts.WriteTimeout = writeTimeout
	opts.PoolTimeout = poolTimeout

	return goredis.NewClient(opts), nil
}
