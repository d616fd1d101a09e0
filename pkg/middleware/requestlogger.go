package middleware

import (
	"log/slog"
	"net/http"

	"github.com/samijoehayek/opus-oakadmin/pkg/logger"
)

// RequestLogger stores a request-scoped logger carrying the correlation and
// trace identifiers in the context. Mount it after RequestLogging and Tracing.
// Auth and the session handlers add user_id and session_id further down.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
