package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsCollector manages all metrics for the assessment service
type MetricsCollector struct {
	meter    metric.Meter
	provider *sdkmetric.MeterProvider
	registry *prometheus.Registry

	// Validation metrics
	validations metric.Int64Counter
	anomalies   metric.Int64Counter

	// Analysis metrics
	analyses        metric.Int64Counter
	analysisLatency metric.Float64Histogram
	queueDepth      metric.Int64UpDownCounter

	// LLM metrics
	llmRequests metric.Int64Counter
	llmLatency  metric.Float64Histogram

	// HTTP metrics
	httpRequests metric.Int64Counter
	httpLatency  metric.Float64Histogram

	// Server for Prometheus scraping
	prometheusServer *http.Server
}

// MetricsConfig configures the metrics collector
type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled" yaml:"enabled"`
	PrometheusPort int  `mapstructure:"prometheus_port" yaml:"prometheus_port"`
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(config MetricsConfig) (*MetricsCollector, error) {
	if !config.Enabled {
		return &MetricsCollector{}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	meter := provider.Meter("leadership")

	collector := &MetricsCollector{
		meter:    meter,
		provider: provider,
		registry: registry,
	}

	if collector.validations, err = meter.Int64Counter(
		"leadership.validations.total",
		metric.WithDescription("Total number of validated submissions"),
		metric.WithUnit("{submission}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create validations counter: %w", err)
	}

	if collector.anomalies, err = meter.Int64Counter(
		"leadership.anomalies.total",
		metric.WithDescription("Anomalies detected, by severity"),
		metric.WithUnit("{anomaly}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create anomalies counter: %w", err)
	}

	if collector.analyses, err = meter.Int64Counter(
		"leadership.analyses.total",
		metric.WithDescription("Completed analyses, by insight provenance"),
		metric.WithUnit("{analysis}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analyses counter: %w", err)
	}

	if collector.analysisLatency, err = meter.Float64Histogram(
		"leadership.analysis.latency",
		metric.WithDescription("Analysis composition latency in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis latency histogram: %w", err)
	}

	if collector.queueDepth, err = meter.Int64UpDownCounter(
		"leadership.analysis.queue_depth",
		metric.WithDescription("Analyses waiting for a worker"),
		metric.WithUnit("{job}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queue depth gauge: %w", err)
	}

	if collector.llmRequests, err = meter.Int64Counter(
		"leadership.llm.requests.total",
		metric.WithDescription("Total number of narrative generation requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create llm requests counter: %w", err)
	}

	if collector.llmLatency, err = meter.Float64Histogram(
		"leadership.llm.latency",
		metric.WithDescription("Narrative generation latency in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create llm latency histogram: %w", err)
	}

	if collector.httpRequests, err = meter.Int64Counter(
		"leadership.http.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}

	if collector.httpLatency, err = meter.Float64Histogram(
		"leadership.http.latency",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http latency histogram: %w", err)
	}

	if config.PrometheusPort > 0 {
		if err := collector.StartPrometheusServer(config.PrometheusPort); err != nil {
			_ = collector.provider.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to start prometheus server: %w", err)
		}
	}

	return collector, nil
}

// Handler exposes the scrape endpoint. Disabled collectors answer 404.
func (m *MetricsCollector) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartPrometheusServer binds a dedicated scrape listener and serves it in the
// background. Bind failures are returned; later serve errors are logged.
func (m *MetricsCollector) StartPrometheusServer(port int) error {
	logger := Default().With("component", "metrics")
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("prometheus listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	m.prometheusServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("prometheus metrics server listening", "addr", ln.Addr().String())
	go func() {
		if err := m.prometheusServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus metrics server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the metrics collector
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	var errs []error
	if m.prometheusServer != nil {
		errs = append(errs, m.prometheusServer.Shutdown(ctx))
	}
	if m.provider != nil {
		errs = append(errs, m.provider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// RecordValidation records one validated submission
func (m *MetricsCollector) RecordValidation(ctx context.Context, valid bool, warnings int) {
	if m == nil || m.validations == nil {
		return
	}
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.validations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.Bool("has_warnings", warnings > 0),
	))
}

// RecordAnomaly records a detected anomaly
func (m *MetricsCollector) RecordAnomaly(ctx context.Context, tag, severity string) {
	if m == nil || m.anomalies == nil {
		return
	}
	m.anomalies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dimension", tag),
		attribute.String("severity", severity),
	))
}

// RecordAnalysis records a completed analysis
func (m *MetricsCollector) RecordAnalysis(ctx context.Context, provenance, status string, latency time.Duration) {
	if m == nil || m.analyses == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("provenance", provenance),
		attribute.String("status", status),
	}
	m.analyses.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.analysisLatency.Record(ctx, latency.Seconds(), metric.WithAttributes(attrs...))
}

// AdjustQueueDepth moves the analysis queue gauge by delta
func (m *MetricsCollector) AdjustQueueDepth(ctx context.Context, delta int64) {
	if m == nil || m.queueDepth == nil {
		return
	}
	m.queueDepth.Add(ctx, delta)
}

// RecordLLMRequest records a narrative generation request
func (m *MetricsCollector) RecordLLMRequest(ctx context.Context, provider, model, status string, latency time.Duration) {
	if m == nil || m.llmRequests == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("model", model),
		attribute.String("status", status),
	}
	m.llmRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.llmLatency.Record(ctx, latency.Seconds(), metric.WithAttributes(attrs...))
}

// RecordHTTPRequest records a served HTTP request
func (m *MetricsCollector) RecordHTTPRequest(ctx context.Context, method, route string, status int, latency time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	}
	m.httpRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpLatency.Record(ctx, latency.Seconds(), metric.WithAttributes(attrs...))
}
