package logging

import (
	"context"

	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/utils/id"
)

// WithLogID returns a logger that tags log lines with a log id.
func WithLogID(logger Logger, logID string) Logger {
	if IsNil(logger) {
		return Nop()
	}
	if logID == "" {
		return logger
	}
	return &logIDLogger{logger: logger, logID: logID}
}

// FromContext returns a logger tagged with the log id, or failing that the
// request id, found in ctx.
func FromContext(ctx context.Context, logger Logger) Logger {
	logID := id.LogIDFromContext(ctx)
	if logID == "" {
		logID = observability.RequestIDFromContext(ctx)
	}
	return WithLogID(logger, logID)
}

type logIDLogger struct {
	logger Logger
	logID  string
}

func (l *logIDLogger) Debug(format string, args ...any) {
	l.logger.Debug(prefixLogID(l.logID, format), args...)
}

func (l *logIDLogger) Info(format string, args ...any) {
	l.logger.Info(prefixLogID(l.logID, format), args...)
}

func (l *logIDLogger) Warn(format string, args ...any) {
	l.logger.Warn(prefixLogID(l.logID, format), args...)
}

func (l *logIDLogger) Error(format string, args ...any) {
	l.logger.Error(prefixLogID(l.logID, format), args...)
}

func prefixLogID(logID, format string) string {
	if logID == "" {
		return format
	}
	return "logid=" + logID + " " + format
}
