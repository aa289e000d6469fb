package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"brewhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := observability.Log
	observability.Log = observability.NewLogger(&buf, "test", "debug")
	t.Cleanup(func() { observability.Log = prev })
	return &buf
}

func TestContextMiddleware_CorrelationID(t *testing.T) {
	app := fiber.New()
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(observability.ExtractCorrelationID(c.UserContext()))
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CorrelationHeader, "upstream-42")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, "upstream-42", resp.Header.Get(CorrelationHeader))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Len(t, resp.Header.Get(CorrelationHeader), 36)
	})
}

func TestStructuredLogger(t *testing.T) {
	buf := captureLog(t)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-9")
		return c.Next()
	})
	app.Use(ContextMiddleware(), StructuredLogger())
	app.Get("/bags/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bags/12", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/bags/12")
	assert.Contains(t, out, "route=/bags/:id")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "request_id=req-9")
}
