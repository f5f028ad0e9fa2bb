package llm

import (
	"context"
	"errors"
	"strings"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// openaiClient speaks the chat completions API.
type openaiClient struct {
	baseClient
}

// NewOpenAIClient builds an OpenAI-compatible client.
func NewOpenAIClient(config Config) Client {
	return &openaiClient{baseClient: newBaseClient(config, baseClientOpts{
		provider:       ProviderOpenAI,
		defaultBaseURL: defaultOpenAIBaseURL,
		defaultModel:   defaultOpenAIModel,
	})}
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message      openaiMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := make([]openaiMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.Prompt})

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	if req.JSONOutput {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	auth := map[string]string{}
	if c.apiKey != "" {
		auth["Authorization"] = "Bearer " + c.apiKey
	}

	var apiResp openaiResponse
	if err := c.postJSON(ctx, "/chat/completions", payload, auth, &apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.Choices) == 0 {
		return nil, lerrors.NewPermanentError(errors.New("no choices in response"), "empty completion")
	}
	choice := apiResp.Choices[0]
	return &CompletionResponse{
		Content:    choice.Message.Content,
		StopReason: choice.FinishReason,
		Usage: TokenUsage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}, nil
}
