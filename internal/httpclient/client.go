// Package httpclient builds the outbound HTTP clients used for narrative
// providers and notification webhooks.
package httpclient

import (
	"net/http"
	"time"

	"github.com/taejunjeon/leadership/internal/logging"
)

const slowRequestThreshold = 5 * time.Second

// New returns a client with the given overall timeout whose transport logs
// slow round trips.
func New(timeout time.Duration, logger logging.Logger) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &loggingTransport{
			base:   http.DefaultTransport,
			logger: logging.OrNop(logger),
		},
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(started)
	if err != nil {
		t.logger.Debug("%s %s failed after %v: %v", req.Method, req.URL.Host, elapsed, err)
		return nil, err
	}
	if elapsed > slowRequestThreshold {
		t.logger.Warn("%s %s took %v (status %d)", req.Method, req.URL.Host, elapsed, resp.StatusCode)
	}
	return resp, nil
}
