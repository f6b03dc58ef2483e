package log

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// Middleware stores the logger in the request context so handlers can log
// with request-scoped attributes.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), loggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request logger, or a default-backed one when the
// middleware did not run.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: ComponentApp}
}

// WithRequestID returns a copy of ctx whose logger tags every record with
// the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	logger := FromContext(ctx).With(FieldRequestID, requestID)
	return context.WithValue(ctx, loggerContextKey, logger)
}
