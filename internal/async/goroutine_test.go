package async

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureLogger) Error(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, fmt.Sprintf(format, args...))
}

func (c *captureLogger) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func TestGoRecoversPanic(t *testing.T) {
	logger := &captureLogger{}
	Go(logger, "worker", func() { panic("boom") })

	require.Eventually(t, func() bool { return logger.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, logger.msgs[0], "[worker]: boom")
}

func TestRunConvertsPanic(t *testing.T) {
	logger := &captureLogger{}
	err := Run(logger, "", func() error { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anonymous panicked: bad")
	assert.Equal(t, 1, logger.count())
}

func TestRunPassesThroughError(t *testing.T) {
	want := errors.New("plain")
	assert.Equal(t, want, Run(nil, "x", func() error { return want }))
	assert.NoError(t, Run(nil, "x", func() error { return nil }))
}
