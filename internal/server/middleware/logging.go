package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/freema/daysync/internal/logger"
	"github.com/freema/daysync/internal/tracing"
)

// RequestLogger attaches a request-scoped logger to the context and logs
// each HTTP request with method, path, status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		attrs := []any{"request_id", chimw.GetReqID(r.Context())}
		if traceID := tracing.TraceIDFromContext(r.Context()); traceID != "" {
			attrs = append(attrs, "trace_id", traceID)
		}
		ctx, log := logger.With(r.Context(), attrs...)
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
		)
	})
}
