package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"brewhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoStore = errors.New("rate limit store unavailable")

// RateLimitBypassed reports whether env runs without throttling.
// Local, test and load-test runs are never limited.
func RateLimitBypassed(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "development", "test", "stress":
		return true
	}
	return false
}

// Limiter counts requests per resource and caller in fixed Redis windows.
type Limiter struct {
	rdb    *redis.Client
	bypass bool
}

// NewLimiter returns a limiter for the given environment. A nil client is allowed;
// requests then follow the route's FailPolicy.
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	return &Limiter{rdb: rdb, bypass: RateLimitBypassed(env)}
}

// Window is the outcome of one counted request.
type Window struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Allow counts one request of id against resource and reports whether it fits in limit.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (Window, error) {
	if l.bypass {
		return Window{Allowed: true, Remaining: limit, ResetIn: window}, nil
	}
	if l.rdb == nil {
		return Window{}, errNoStore
	}

	key := "rl:" + resource + ":" + id
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, window)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Window{}, fmt.Errorf("rate limit %s: %w", resource, err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	reset := ttl.Val()
	if reset <= 0 {
		reset = window
	}
	return Window{Allowed: count <= limit, Remaining: remaining, ResetIn: reset}, nil
}

// Handler enforces limit requests per window for resource. Authenticated callers are
// keyed by user id, anonymous ones by IP.
func (l *Limiter) Handler(resource string, limit int, window time.Duration, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		id := "ip:" + c.IP()
		if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
			id = "user:" + strconv.FormatUint(uint64(uid), 10)
		}

		w, err := l.Allow(ctx, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				observability.Log.WarnContext(ctx, "rate limit fail-closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(w.Remaining))
		if !w.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(w.ResetIn.Round(time.Second)/time.Second)))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
