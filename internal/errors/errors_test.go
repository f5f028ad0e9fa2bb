package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/logging"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
		permanent bool
	}{
		{"typed transient", NewTransientError(errors.New("x"), "try later"), true, false},
		{"typed permanent", NewPermanentError(errors.New("x"), "bad input"), false, true},
		{"rate limit status", fmt.Errorf("openai: status 429 too many"), true, false},
		{"overloaded status", fmt.Errorf("anthropic: status 529"), true, false},
		{"bad request status", fmt.Errorf("openai: status 400"), false, true},
		{"deadline", context.DeadlineExceeded, true, false},
		{"cancelled", context.Canceled, false, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
			assert.Equal(t, tt.permanent, IsPermanent(tt.err))
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	err := FromHTTPStatus(503, 2, errors.New("busy"))
	var transient *TransientError
	require.True(t, errors.As(err, &transient))
	assert.Equal(t, 2, transient.RetryAfter)
	assert.Equal(t, 503, StatusCode(err))

	err = FromHTTPStatus(401, 0, errors.New("bad key"))
	assert.True(t, IsPermanent(err))
	assert.Equal(t, ErrorTypePermanent, GetErrorType(err))
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRetryWithResultRecoversFromTransient(t *testing.T) {
	calls := 0
	got, err := RetryWithResultAndLog(context.Background(), fastRetry(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(errors.New("flaky"), "flaky")
		}
		return "ok", nil
	}, logging.Nop())

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanent(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return NewPermanentError(errors.New("nope"), "nope")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryExhausts(t *testing.T) {
	_, err := RetryWithResult(context.Background(), fastRetry(), func(context.Context) (int, error) {
		return 0, NewTransientError(errors.New("down"), "down")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker("openai", CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Minute})
	cb.logger = logging.Nop()
	cb.now = func() time.Time { return now }

	failing := func(context.Context) error { return NewTransientError(errors.New("503"), "down") }
	require.Error(t, cb.Execute(context.Background(), failing))
	require.Error(t, cb.Execute(context.Background(), failing))
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(context.Background(), func(context.Context) error { return nil })
	assert.True(t, IsDegraded(err))

	now = now.Add(2 * time.Minute)
	got, err := ExecuteFunc(cb, context.Background(), func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerIgnoresCallerErrors(t *testing.T) {
	cb := NewCircuitBreaker("anthropic", CircuitBreakerConfig{FailureThreshold: 1})
	cb.logger = logging.Nop()

	_ = cb.Execute(context.Background(), func(context.Context) error {
		return FromHTTPStatus(400, 0, errors.New("malformed"))
	})
	assert.Equal(t, StateClosed, cb.State())
}
