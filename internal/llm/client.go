// Package llm talks to hosted language models and turns their output into
// analysis narratives.
package llm

import (
	"context"
	"time"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config configures one provider client.
type Config struct {
	APIKey     string            `mapstructure:"api_key" yaml:"api_key"`
	Model      string            `mapstructure:"model" yaml:"model"`
	BaseURL    string            `mapstructure:"base_url" yaml:"base_url"`
	Timeout    time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int               `mapstructure:"max_retries" yaml:"max_retries"`
	Headers    map[string]string `mapstructure:"headers" yaml:"headers"`
}

// Configured reports whether the provider has credentials.
func (c Config) Configured() bool {
	return c.APIKey != ""
}

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	JSONOutput  bool
}

// TokenUsage reports provider token accounting.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the provider's text answer.
type CompletionResponse struct {
	Content    string
	StopReason string
	Usage      TokenUsage
}

// Client is a provider client.
type Client interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
