package llm

import (
	"context"
	"fmt"
	"time"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/logging"
)

// retryClient wraps a Client with retry logic and a circuit breaker.
type retryClient struct {
	underlying     Client
	retryConfig    lerrors.RetryConfig
	circuitBreaker *lerrors.CircuitBreaker
	logger         logging.Logger
}

// NewRetryClient wraps client with retry and circuit breaker logic.
func NewRetryClient(client Client, retryConfig lerrors.RetryConfig, circuitBreaker *lerrors.CircuitBreaker) Client {
	if circuitBreaker == nil {
		circuitBreaker = lerrors.NewCircuitBreaker(client.Provider(), lerrors.DefaultCircuitBreakerConfig())
	}
	return &retryClient{
		underlying:     client,
		retryConfig:    retryConfig,
		circuitBreaker: circuitBreaker,
		logger:         logging.NewComponentLogger("llm-retry"),
	}
}

func (c *retryClient) Provider() string { return c.underlying.Provider() }

func (c *retryClient) Model() string { return c.underlying.Model() }

// Complete executes the completion with retry logic.
func (c *retryClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	startTime := time.Now()

	resp, err := lerrors.RetryWithResultAndLog(ctx, c.retryConfig, func(ctx context.Context) (*CompletionResponse, error) {
		return lerrors.ExecuteFunc(c.circuitBreaker, ctx, func(ctx context.Context) (*CompletionResponse, error) {
			return c.underlying.Complete(ctx, req)
		})
	}, c.logger)

	duration := time.Since(startTime)
	if err != nil {
		c.logger.Warn("%s request failed after retries (took %v): %v", c.underlying.Provider(), duration, err)
		if lerrors.IsDegraded(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s completion failed after %v: %w", c.underlying.Provider(), duration.Round(time.Millisecond), err)
	}

	if duration > 5*time.Second {
		c.logger.Debug("%s request succeeded after %v", c.underlying.Provider(), duration)
	}
	return resp, nil
}
