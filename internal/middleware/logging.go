package middleware

import (
	"log/slog"
	"time"

	"brewhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CorrelationHeader carries a caller-supplied correlation id across services.
const CorrelationHeader = "X-Correlation-ID"

// ContextMiddleware copies the request, trace and user ids from fiber locals
// onto the user context so service-layer logs carry them. The auth middleware
// adds the user id itself because it runs later.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cid := c.Get(CorrelationHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set(CorrelationHeader, cid)

		ctx := observability.WithCorrelationID(c.UserContext(), cid)
		if rid, ok := c.Locals("requestid").(string); ok {
			ctx = observability.WithRequestID(ctx, rid)
		}
		if tid, ok := c.Locals("traceID").(string); ok {
			ctx = observability.WithTraceID(ctx, tid)
		}
		if uid, ok := c.Locals("userID").(uint); ok {
			ctx = observability.WithUserID(ctx, uid)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger writes one access log line per request. 5xx responses and
// handler errors log at error, 4xx at warn.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if route := c.Route(); route != nil && route.Path != c.Path() {
			attrs = append(attrs, slog.String("route", route.Path))
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			level = slog.LevelError
			attrs = append(attrs, slog.String("error", err.Error()))
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}
		observability.Log.Log(c.UserContext(), level, "http request", attrs...)
		return err
	}
}
