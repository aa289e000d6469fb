// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type ctxKey int

const (
	correlationKey ctxKey = iota
	requestKey
	userKey
	traceKey
)

// Log is the process-wide logger. Records written with a context pick up the
// request, user, trace and correlation ids stored on it.
var Log = NewLogger(os.Stdout, os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

// NewLogger builds a context-aware logger. Production writes JSON, everything
// else writes key=value text.
func NewLogger(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if env == "production" || env == "prod" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(contextHandler{h})
}

// Configure replaces Log once the application config is known.
func Configure(env, level string) {
	Log = NewLogger(os.Stdout, env, level)
	slog.SetDefault(Log)
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(requestKey).(string); ok {
		r.AddAttrs(slog.String("request_id", v))
	}
	if v, ok := ctx.Value(userKey).(uint); ok {
		r.AddAttrs(slog.Uint64("user_id", uint64(v)))
	}
	if v, ok := ctx.Value(traceKey).(string); ok {
		r.AddAttrs(slog.String("trace_id", v))
	}
	if v := ExtractCorrelationID(ctx); v != "" {
		r.AddAttrs(slog.String("correlation_id", v))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestKey, id)
}

func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userKey, id)
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey, id)
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

func ExtractCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey).(string)
	return id
}

// EnsureCorrelationID returns ctx unchanged when it already carries an id,
// otherwise a child context with a fresh one. Used by entry points outside HTTP.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if ExtractCorrelationID(ctx) != "" {
		return ctx
	}
	return WithCorrelationID(ctx, uuid.NewString())
}

// Fields are extra attributes attached to a repository or service log line.
type Fields map[string]any

func (f Fields) attrs(base ...any) []any {
	for k, v := range f {
		base = append(base, slog.Any(k, v))
	}
	return base
}

// RepoLogger logs writes against one table.
type RepoLogger struct {
	table string
}

func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

func (l *RepoLogger) write(ctx context.Context, op string, f Fields) {
	Log.DebugContext(ctx, "row "+op, f.attrs(slog.String("table", l.table), slog.String("operation", op))...)
}

func (l *RepoLogger) LogCreate(ctx context.Context, f Fields) { l.write(ctx, "create", f) }
func (l *RepoLogger) LogUpdate(ctx context.Context, f Fields) { l.write(ctx, "update", f) }
func (l *RepoLogger) LogDelete(ctx context.Context, f Fields) { l.write(ctx, "delete", f) }

func (l *RepoLogger) LogError(ctx context.Context, err error, op string) {
	Log.ErrorContext(ctx, "query failed",
		slog.String("table", l.table),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// ServiceLogger logs business events of one service.
type ServiceLogger struct {
	service string
}

func NewServiceLogger(service string) *ServiceLogger {
	return &ServiceLogger{service: service}
}

// Event logs a completed business operation.
func (l *ServiceLogger) Event(ctx context.Context, event string, f Fields) {
	Log.InfoContext(ctx, event, f.attrs(slog.String("service", l.service))...)
}

// Failure logs a failed step. Expected domain errors are logged at warn.
func (l *ServiceLogger) Failure(ctx context.Context, event string, err error, f Fields) {
	Log.WarnContext(ctx, event+" failed", f.attrs(slog.String("service", l.service), slog.String("error", err.Error()))...)
}
