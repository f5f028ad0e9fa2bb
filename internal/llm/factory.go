package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/taejunjeon/leadership/internal/analysis"
	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/observability"
)

// Settings configures every provider.
type Settings struct {
	DefaultProvider string  `mapstructure:"default_provider" yaml:"default_provider"`
	OpenAI          Config  `mapstructure:"openai" yaml:"openai"`
	Anthropic       Config  `mapstructure:"anthropic" yaml:"anthropic"`
	SubjectRate     float64 `mapstructure:"subject_rate" yaml:"subject_rate"` // requests per second per subject
	SubjectBurst    int     `mapstructure:"subject_burst" yaml:"subject_burst"`
}

// ProviderInfo describes a configured provider.
type ProviderInfo struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Factory builds and caches provider clients.
type Factory struct {
	settings Settings
	recorder Recorder
	tracer   *observability.TracerProvider

	mu      sync.Mutex
	clients map[string]Client
	// build is replaced in tests.
	build func(provider string, cfg Config) Client
}

// NewFactory builds a Factory.
func NewFactory(settings Settings, recorder Recorder, tracer *observability.TracerProvider) *Factory {
	if settings.DefaultProvider == "" {
		settings.DefaultProvider = ProviderOpenAI
	}
	return &Factory{
		settings: settings,
		recorder: recorder,
		tracer:   tracer,
		clients:  make(map[string]Client),
		build:    buildClient,
	}
}

func buildClient(provider string, cfg Config) Client {
	if provider == ProviderAnthropic {
		return NewAnthropicClient(cfg)
	}
	return NewOpenAIClient(cfg)
}

func (f *Factory) config(provider string) (Config, error) {
	switch provider {
	case ProviderOpenAI:
		return f.settings.OpenAI, nil
	case ProviderAnthropic:
		return f.settings.Anthropic, nil
	}
	return Config{}, lerrors.NewPermanentError(fmt.Errorf("unknown provider %q", provider), "unknown AI provider")
}

// Client returns the wrapped client for provider; "" selects the default.
func (f *Factory) Client(provider string) (Client, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = f.settings.DefaultProvider
	}
	cfg, err := f.config(provider)
	if err != nil {
		return nil, err
	}
	if !cfg.Configured() {
		return nil, lerrors.NewPermanentError(fmt.Errorf("%s api key not configured", provider), "provider not configured")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.clients[provider]; ok {
		return client, nil
	}

	retry := lerrors.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	client := f.build(provider, cfg)
	client = NewRetryClient(client, retry, lerrors.NewCircuitBreaker(provider, lerrors.DefaultCircuitBreakerConfig()))
	client = WrapWithSubjectRateLimit(client, rate.Limit(f.settings.SubjectRate), f.settings.SubjectBurst)
	f.clients[provider] = client
	return client, nil
}

// Generator returns a narrative generator for provider.
func (f *Factory) Generator(provider string) (analysis.NarrativeGenerator, error) {
	client, err := f.Client(provider)
	if err != nil {
		return nil, err
	}
	return NewNarrativeGenerator(client, WithRecorder(f.recorder), WithTracer(f.tracer)), nil
}

// DefaultGenerator returns the generator for the default provider, or nil
// when it is not configured so analyses run rule-based.
func (f *Factory) DefaultGenerator() analysis.NarrativeGenerator {
	gen, err := f.Generator("")
	if err != nil {
		return nil
	}
	return gen
}

// Providers lists configured providers, default first.
func (f *Factory) Providers() []ProviderInfo {
	var out []ProviderInfo
	if f.settings.OpenAI.Configured() {
		out = append(out, ProviderInfo{
			Provider:    ProviderOpenAI,
			Model:       orDefault(f.settings.OpenAI.Model, defaultOpenAIModel),
			Name:        "OpenAI",
			Description: "Fast, efficient analysis",
			Default:     f.settings.DefaultProvider == ProviderOpenAI,
		})
	}
	if f.settings.Anthropic.Configured() {
		out = append(out, ProviderInfo{
			Provider:    ProviderAnthropic,
			Model:       orDefault(f.settings.Anthropic.Model, defaultAnthropicModel),
			Name:        "Anthropic",
			Description: "Deeper, context-aware insight",
			Default:     f.settings.DefaultProvider == ProviderAnthropic,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Default && !out[j].Default })
	return out
}

// Comparison is one provider's outcome in Compare.
type Comparison struct {
	Provider  string              `json:"provider"`
	Model     string              `json:"model,omitempty"`
	Success   bool                `json:"success"`
	Narrative *analysis.Narrative `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	LatencyMS int64               `json:"latency_ms"`
}

// Compare runs req against every configured provider concurrently.
func (f *Factory) Compare(ctx context.Context, req analysis.NarrativeRequest) []Comparison {
	providers := f.Providers()
	results := make([]Comparison, len(providers))

	var g errgroup.Group
	for i, info := range providers {
		g.Go(func() error {
			started := time.Now()
			res := Comparison{Provider: info.Provider, Model: info.Model}
			gen, err := f.Generator(info.Provider)
			if err != nil {
				res.Error = err.Error()
			} else if out := gen.Generate(ctx, req); out.OK() {
				n := out.Narrative()
				res.Success = true
				res.Narrative = &n
			} else {
				res.Error = out.Err().Error()
			}
			res.LatencyMS = time.Since(started).Milliseconds()
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
