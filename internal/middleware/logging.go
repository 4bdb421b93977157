package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contextKey is the type of keys this package stores in contexts.
// Using a custom type prevents collisions.
type contextKey string

const loggerCtxKey = contextKey("logger")

// requestIDHeader is echoed back so callers can correlate log lines.
const requestIDHeader = "X-Request-ID"

// StructuredLoggingMiddleware creates a Gin middleware handler that injects
// a request-scoped logger into the request context.
func StructuredLoggingMiddleware(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		requestLogger := baseLogger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), requestLogger))

		c.Next()

		// Auth may have enriched the logger with the user ID.
		GetLoggerFromCtx(c.Request.Context()).Info("Request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger if none is found, e.g. in background jobs.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
