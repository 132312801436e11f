// Package logger configures the process-wide slog logger and decorates it
// with request-scoped fields.
package logger

import (
	"context"
	"log/slog"
	"os"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Setup builds the process logger and installs it as the slog default.
// Production gets JSON output at info level, everything else text at debug.
func Setup(env string) *slog.Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// WithUserID stamps the authenticated user onto the context so FromContext
// picks it up. The auth middleware calls this after validating the token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// FromContext returns the default logger annotated with the chi request ID
// and the authenticated user, when present.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()

	if requestID := chimiddleware.GetReqID(ctx); requestID != "" {
		l = l.With("request_id", requestID)
	}
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		l = l.With("user_id", userID)
	}

	return l
}
