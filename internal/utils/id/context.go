package id

import "context"

type contextKey string

const (
	subjectKey contextKey = "leadership_subject_id"
	logKey     contextKey = "leadership_log_id"
)

// WithSubjectID stores the authenticated subject identifier on the context.
func WithSubjectID(ctx context.Context, subjectID string) context.Context {
	if subjectID == "" {
		return ctx
	}
	return context.WithValue(ctx, subjectKey, subjectID)
}

// SubjectIDFromContext returns the subject identifier stored on the context.
func SubjectIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// WithLogID stores a log correlation identifier on the context.
func WithLogID(ctx context.Context, logID string) context.Context {
	if logID == "" {
		return ctx
	}
	return context.WithValue(ctx, logKey, logID)
}

// LogIDFromContext returns the log correlation identifier stored on the context.
func LogIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(logKey).(string); ok {
		return v
	}
	return ""
}
