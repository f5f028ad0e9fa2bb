package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/httpclient"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	id "github.com/taejunjeon/leadership/internal/utils/id"
)

const maxResponseBytes = 4 << 20

// baseClient holds fields and helpers shared by the HTTP provider clients.
type baseClient struct {
	provider   string
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	headers    map[string]string
	maxRetries int
}

type baseClientOpts struct {
	provider       string
	defaultBaseURL string
	defaultModel   string
}

func newBaseClient(config Config, opts baseClientOpts) baseClient {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = opts.defaultBaseURL
	}
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = opts.defaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := logging.NewComponentLogger("llm." + opts.provider)
	return baseClient{
		provider:   opts.provider,
		model:      model,
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		httpClient: httpclient.New(timeout, logger),
		logger:     logger,
		headers:    config.Headers,
		maxRetries: config.MaxRetries,
	}
}

// Provider returns the provider name.
func (c *baseClient) Provider() string { return c.provider }

// Model returns the model name used by this client.
func (c *baseClient) Model() string { return c.model }

func (c *baseClient) buildLogPrefix(ctx context.Context) (requestID, prefix string) {
	requestID = observability.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = id.NewRequestID()
	}
	prefix = fmt.Sprintf("[req:%s] ", requestID)
	if logID := id.LogIDFromContext(ctx); logID != "" {
		prefix = fmt.Sprintf("[log_id=%s] %s", logID, prefix)
	}
	return requestID, prefix
}

// postJSON marshals payload, posts it with the client's headers plus auth,
// and decodes a 2xx body into out. Non-2xx statuses become typed errors.
func (c *baseClient) postJSON(ctx context.Context, path string, payload any, auth map[string]string, out any) error {
	_, prefix := c.buildLogPrefix(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + path
	c.logger.Debug("%sPOST %s model=%s", prefix, endpoint, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.maxRetries > 0 {
		req.Header.Set("X-Retry-Limit", strconv.Itoa(c.maxRetries))
	}
	for k, v := range auth {
		req.Header.Set(k, v)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("%sHTTP request failed: %v", prefix, err)
		return wrapRequestError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := c.readBody(resp.Body, maxResponseBytes)
	if err != nil {
		return err
	}
	c.logger.Debug("%sstatus %d, %d bytes", prefix, resp.StatusCode, len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapHTTPError(resp.StatusCode, respBody, resp.Header)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// OversizedResponseError reports a provider answer larger than the client
// accepts. Narratives are a few kilobytes, so this usually means the provider
// returned something other than a completion.
type OversizedResponseError struct {
	Provider string
	Limit    int64
}

func (e *OversizedResponseError) Error() string {
	return fmt.Sprintf("%s response exceeded %d bytes", e.Provider, e.Limit)
}

// readBody reads at most limit bytes; a larger body is a permanent error
// since retrying returns the same payload.
func (c *baseClient) readBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, lerrors.NewTransientError(fmt.Errorf("read %s response: %w", c.provider, err), "provider response interrupted")
	}
	if int64(len(data)) > limit {
		return nil, lerrors.NewPermanentError(&OversizedResponseError{Provider: c.provider, Limit: limit}, c.provider+" response too large")
	}
	return data, nil
}

func wrapRequestError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return lerrors.NewTransientError(err, "provider request failed")
}

func mapHTTPError(status int, body []byte, header http.Header) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return lerrors.FromHTTPStatus(status, parseRetryAfter(header.Get("Retry-After")), fmt.Errorf("status %d: %s", status, msg))
}

func parseRetryAfter(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return secs
	}
	if at, err := http.ParseTime(value); err == nil {
		if secs := int(time.Until(at).Seconds()); secs > 0 {
			return secs
		}
	}
	return 0
}
