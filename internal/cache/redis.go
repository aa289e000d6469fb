// Package cache holds the optional Redis client and the JSON cache-aside helpers.
// Every helper is a no-op while no client is configured.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brewhub/internal/middleware"
	"brewhub/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errorCounter feeds failed commands into the redis_errors_total metric.
// redis.Nil is a miss, not a failure.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countFailure(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countFailure("pipeline", err)
		return err
	}
}

func countFailure(name string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(name).Inc()
	}
}

// parseAddr accepts either host:port or a redis:// / rediss:// URL.
func parseAddr(addr string) (*redis.Options, error) {
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return opts, nil
}

// Connect dials addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := parseAddr(addr)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// InitRedis installs the package client. An empty address or an unreachable
// server leaves caching disabled instead of failing startup.
func InitRedis(ctx context.Context, addr string) {
	if addr == "" {
		SetClient(nil)
		return
	}
	c, err := Connect(ctx, addr)
	if err != nil {
		observability.Log.Warn("redis unavailable, caching disabled", "addr", addr, "error", err)
		SetClient(nil)
		return
	}
	SetClient(c)
	observability.Log.Info("redis connected", "addr", c.Options().Addr)
}

// SetClient replaces the package client. Tests point it at miniredis.
func SetClient(c *redis.Client) {
	if c != nil {
		c.AddHook(errorCounter{})
	}
	client = c
}

func GetClient() *redis.Client {
	return client
}
