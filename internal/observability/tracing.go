package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingConfig configures distributed tracing
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
	Exporter       string  `mapstructure:"exporter" yaml:"exporter"` // otlp, zipkin
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	ZipkinEndpoint string  `mapstructure:"zipkin_endpoint" yaml:"zipkin_endpoint"`
	SampleRate     float64 `mapstructure:"sample_rate" yaml:"sample_rate"` // 0.0 to 1.0
	ServiceName    string  `mapstructure:"service_name" yaml:"service_name"`
	ServiceVersion string  `mapstructure:"service_version" yaml:"service_version"`
}

// TracerProvider wraps OpenTelemetry tracer
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracerProvider creates a new tracer provider
func NewTracerProvider(config TracingConfig) (*TracerProvider, error) {
	if !config.Enabled {
		return &TracerProvider{
			tracer: noop.NewTracerProvider().Tracer("leadership"),
		}, nil
	}

	if config.ServiceName == "" {
		config.ServiceName = "leadership"
	}
	if config.SampleRate <= 0 || config.SampleRate > 1.0 {
		config.SampleRate = 1.0
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch config.Exporter {
	case "otlp", "":
		endpoint := config.OTLPEndpoint
		if endpoint == "" {
			endpoint = "localhost:4318"
		}
		exporter, err = otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
	case "zipkin":
		endpoint := config.ZipkinEndpoint
		if endpoint == "" {
			endpoint = "http://localhost:9411/api/v2/spans"
		}
		exporter, err = zipkin.New(endpoint)
	default:
		return nil, fmt.Errorf("unsupported exporter: %s", config.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer("leadership"),
	}, nil
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp != nil && tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the tracer
func (tp *TracerProvider) Tracer() trace.Tracer {
	if tp == nil || tp.tracer == nil {
		return noop.NewTracerProvider().Tracer("leadership")
	}
	return tp.tracer
}

// StartSpan starts a new span tagged with the request id found in ctx.
func (tp *TracerProvider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	return tp.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Common span names
const (
	SpanHTTPServer       = "leadership.http.request"
	SpanAnalysisCompose  = "leadership.analysis.compose"
	SpanValidationSubmit = "leadership.validation.submit"
	SpanLLMGenerate      = "leadership.llm.generate"
)

// Common attribute keys
const (
	AttrRequestID  = "leadership.request_id"
	AttrSubjectID  = "leadership.subject_id"
	AttrProvider   = "leadership.llm.provider"
	AttrModel      = "leadership.llm.model"
	AttrStyle      = "leadership.style"
	AttrRisk       = "leadership.risk"
	AttrProvenance = "leadership.provenance"
)

// SubjectAttrs creates subject attributes
func SubjectAttrs(subjectID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSubjectID, subjectID),
	}
}

// LLMAttrs creates LLM attributes
func LLMAttrs(provider, model string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	}
}
