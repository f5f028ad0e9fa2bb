package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger wraps slog for structured logging
type Logger struct {
	logger *slog.Logger
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

var defaultLogger atomic.Pointer[Logger]

// NewLogger creates a new structured logger
func NewLogger(config LogConfig) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(config.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		logger: slog.New(handler),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault installs the process-wide logger used by component loggers.
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultLogger.Store(logger)
}

// Default returns the process-wide logger, creating a text logger on stderr
// when none has been installed.
func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	logger := NewLogger(LogConfig{Level: "info", Format: "text", Output: os.Stderr})
	if defaultLogger.CompareAndSwap(nil, logger) {
		return logger
	}
	return defaultLogger.Load()
}

// WithContext adds context fields to logger
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var args []any

	if traceID := TraceIDFromContext(ctx); traceID != "" {
		args = append(args, "trace_id", traceID)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}

	if len(args) == 0 {
		return l
	}

	return &Logger{
		logger: l.logger.With(args...),
	}
}

// With adds additional fields to the logger
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger: l.logger.With(args...),
	}
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs at info level
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs at error level
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// InfoContext logs at info level with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Info(msg, args...)
}

// SanitizeAPIKey masks API key for security
func SanitizeAPIKey(key string) string {
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}

type contextKey string

const (
	traceIDKey   contextKey = "trace_id"
	requestIDKey contextKey = "request_id"
)

// ContextWithTraceID adds trace ID to context
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext extracts trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// ContextWithRequestID adds the HTTP request ID to context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the HTTP request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
