package llm

import (
	"context"
	"fmt"
	"sync"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
	id "github.com/taejunjeon/leadership/internal/utils/id"

	"golang.org/x/time/rate"
)

// subjectRateLimitedClient applies a per-subject limiter around provider calls.
type subjectRateLimitedClient struct {
	base   Client
	limit  rate.Limit
	burst  int
	mu     sync.Mutex
	bucket map[string]*rate.Limiter
}

// WrapWithSubjectRateLimit limits calls per subject id found in the context.
// A non-positive limit returns client unchanged; burst is coerced to >= 1.
func WrapWithSubjectRateLimit(client Client, limit rate.Limit, burst int) Client {
	if limit <= 0 {
		return client
	}
	if burst < 1 {
		burst = 1
	}
	return &subjectRateLimitedClient{
		base:   client,
		limit:  limit,
		burst:  burst,
		bucket: make(map[string]*rate.Limiter),
	}
}

func (c *subjectRateLimitedClient) Provider() string { return c.base.Provider() }

func (c *subjectRateLimitedClient) Model() string { return c.base.Model() }

func (c *subjectRateLimitedClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	subject := id.SubjectIDFromContext(ctx)
	if !c.limiterFor(subject).Allow() {
		return nil, lerrors.NewPermanentError(
			fmt.Errorf("%s rate limit exceeded for subject %q", c.base.Provider(), subject),
			"too many narrative requests for this subject")
	}
	return c.base.Complete(ctx, req)
}

func (c *subjectRateLimitedClient) limiterFor(subjectID string) *rate.Limiter {
	key := subjectID
	if key == "" {
		key = "anonymous"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.bucket[key]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.bucket[key] = limiter
	}
	return limiter
}
