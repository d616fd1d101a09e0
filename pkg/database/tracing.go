package database

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samijoehayek/opus-oakadmin/pkg/tracing"
)

const tracerName = "github.com/samijoehayek/opus-oakadmin/pkg/database"

var slowOpCfg struct {
	mu        sync.RWMutex
	threshold time.Duration
	logger    *slog.Logger
}

// SetSlowOpLogging configures slow store operation detection. A zero
// threshold disables it.
func SetSlowOpLogging(threshold time.Duration, logger *slog.Logger) {
	slowOpCfg.mu.Lock()
	defer slowOpCfg.mu.Unlock()
	slowOpCfg.threshold = threshold
	slowOpCfg.logger = logger
}

func slowOpConfig() (time.Duration, *slog.Logger) {
	slowOpCfg.mu.RLock()
	defer slowOpCfg.mu.RUnlock()
	return slowOpCfg.threshold, slowOpCfg.logger
}

// TraceRedis starts a client span for a Redis operation. The returned
// function must be called when the operation completes:
//
//	ctx, end := database.TraceRedis(ctx, "session.save", key)
//	defer func() { end(err) }()
func TraceRedis(ctx context.Context, operation, key string) (context.Context, func(error)) {
	start := time.Now()
	tracer := otel.Tracer(tracerName)
	ctx, end := tracing.StartSpan(ctx, spanKindClient{tracer}, "redis."+operation,
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", operation),
		attribute.String("db.redis.key", key),
	)

	return ctx, func(err error) {
		end(err)

		threshold, logger := slowOpConfig()
		if threshold <= 0 || logger == nil {
			return
		}
		if elapsed := time.Since(start); elapsed >= threshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.String("key", key),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			logger.WarnContext(ctx, "slow redis operation", attrs...)
		}
	}
}

// spanKindClient marks every span it starts as a client span.
type spanKindClient struct {
	trace.Tracer
}

func (t spanKindClient) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name, append(opts, trace.WithSpanKind(trace.SpanKindClient))...)
}
