package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
)

const (
	defaultAnthropicBaseURL   = "https://api.anthropic.com/v1"
	defaultAnthropicModel     = "claude-sonnet-4-20250514"
	defaultAnthropicVersion   = "2023-06-01"
	defaultAnthropicMaxTokens = 1024
	anthropicVersionHeaderKey = "anthropic-version"
	anthropicRequestHeaderKey = "x-api-key"
	anthropicMessagesPath     = "/messages"
)

type anthropicClient struct {
	baseClient
}

// NewAnthropicClient builds a Messages API client.
func NewAnthropicClient(config Config) Client {
	return &anthropicClient{baseClient: newBaseClient(config, baseClientOpts{
		provider:       ProviderAnthropic,
		defaultBaseURL: defaultAnthropicBaseURL,
		defaultModel:   defaultAnthropicModel,
	})}
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *anthropicClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	payload := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"messages": []anthropicMessage{{
			Role:    "user",
			Content: []anthropicContentBlock{{Type: "text", Text: req.Prompt}},
		}},
	}
	if strings.TrimSpace(req.System) != "" {
		payload["system"] = req.System
	}

	auth := map[string]string{anthropicVersionHeaderKey: defaultAnthropicVersion}
	if c.apiKey != "" {
		auth[anthropicRequestHeaderKey] = c.apiKey
	}

	var apiResp anthropicResponse
	if err := c.postJSON(ctx, anthropicMessagesPath, payload, auth, &apiResp); err != nil {
		return nil, err
	}
	if apiResp.Error != nil && apiResp.Error.Message != "" {
		return nil, lerrors.NewPermanentError(fmt.Errorf("%s: %s", apiResp.Error.Type, apiResp.Error.Message), "provider returned an error")
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, lerrors.NewPermanentError(errors.New("no text content in response"), "empty completion")
	}
	return &CompletionResponse{
		Content:    text.String(),
		StopReason: apiResp.StopReason,
		Usage: TokenUsage{
			PromptTokens:     apiResp.Usage.InputTokens,
			CompletionTokens: apiResp.Usage.OutputTokens,
			TotalTokens:      apiResp.Usage.InputTokens + apiResp.Usage.OutputTokens,
		},
	}, nil
}
