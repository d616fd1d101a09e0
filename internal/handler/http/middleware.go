package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samijoehayek/opus-oakadmin/pkg/logger"
)

// SessionScope tags the request context and its logger with the session ID
// taken from the {id} path parameter.
func SessionScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctx := logger.WithSessionID(r.Context(), id)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("session_id", id)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// limitBody caps JSON request bodies.
func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
}

const maxJSONBody = 1 << 20
