package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type contextKey int

const (
	fieldsKey contextKey = iota
	loggerKey
)

// fields are the request-scoped identifiers attached to every log line.
type fields struct {
	correlationID string
	userID        string
	sessionID     string
}

// New creates a JSON logger on stdout tagged with the service name.
func New(serviceName, level string) *slog.Logger {
	return NewWithWriter(serviceName, level, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w. Source locations are
// included at debug level.
func NewWithWriter(serviceName, level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With(slog.String("service", serviceName))
}

// ParseLevel accepts the names slog understands (debug, info, warn, error,
// optionally with an offset such as "debug-2"), case-insensitively. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func fieldsFrom(ctx context.Context) fields {
	f, _ := ctx.Value(fieldsKey).(fields)
	return f
}

func withFields(ctx context.Context, set func(*fields)) context.Context {
	f := fieldsFrom(ctx)
	set(&f)
	return context.WithValue(ctx, fieldsKey, f)
}

// WithCorrelationID tags ctx with the request correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *fields) { f.correlationID = id })
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).correlationID
}

// WithUserID tags ctx with the authenticated admin.
func WithUserID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *fields) { f.userID = id })
}

// UserIDFromContext returns the admin ID recorded for logging, or "".
func UserIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).userID
}

// WithSessionID tags ctx with the edit session being operated on.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *fields) { f.sessionID = id })
}

// SessionIDFromContext returns the edit session ID, or "".
func SessionIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).sessionID
}

// NewContext stores l as the request-scoped logger.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithContext returns l enriched with the identifiers carried by ctx and the
// active span, if any.
func WithContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	f := fieldsFrom(ctx)
	attrs := make([]any, 0, 5)
	for _, kv := range [...][2]string{
		{"correlation_id", f.correlationID},
		{"user_id", f.userID},
		{"session_id", f.sessionID},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}
