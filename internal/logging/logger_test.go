package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/taejunjeon/leadership/internal/observability"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Debug(format string, _ ...any) { r.lines = append(r.lines, format) }
func (r *recordingLogger) Info(format string, _ ...any)  { r.lines = append(r.lines, format) }
func (r *recordingLogger) Warn(format string, _ ...any)  { r.lines = append(r.lines, format) }
func (r *recordingLogger) Error(format string, _ ...any) { r.lines = append(r.lines, format) }

func TestOrNopHandlesTypedNilPointers(t *testing.T) {
	var rec *recordingLogger
	var logger Logger = rec
	if !IsNil(logger) {
		t.Fatalf("expected typed nil pointer to be detected")
	}
	safe := OrNop(logger)
	if IsNil(safe) {
		t.Fatalf("expected OrNop to return a usable logger")
	}
	safe.Info("hello %s", "world")
}

func TestFromObservabilityFormatsMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	base := observability.NewLogger(observability.LogConfig{
		Level:  "info",
		Format: "text",
		Output: buf,
	})

	logger := FromObservabilityWithComponent(base, "validation")
	logger.Info("hello %s", "world")

	if want := "hello world"; !bytes.Contains(buf.Bytes(), []byte(want)) {
		t.Fatalf("expected %q in output, got %q", want, buf.String())
	}
	if want := "component=validation"; !bytes.Contains(buf.Bytes(), []byte(want)) {
		t.Fatalf("expected %q in output, got %q", want, buf.String())
	}
}

func TestFromContextPrefixesRequestID(t *testing.T) {
	rec := &recordingLogger{}
	ctx := observability.ContextWithRequestID(context.Background(), "req-42")

	FromContext(ctx, rec).Info("scored")

	if len(rec.lines) != 1 || rec.lines[0] != "logid=req-42 scored" {
		t.Fatalf("unexpected lines: %v", rec.lines)
	}
}
