package observability

// Config represents the complete observability configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json, text
}

// DefaultConfig returns the default observability configuration
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			PrometheusPort: 0,
		},
		Tracing: TracingConfig{
			Enabled:        false,
			Exporter:       "otlp",
			OTLPEndpoint:   "localhost:4318",
			SampleRate:     1.0,
			ServiceName:    "leadership",
			ServiceVersion: "1.0.0",
		},
	}
}

// Provider bundles the logger, metrics and tracer built from a Config.
type Provider struct {
	Logger  *Logger
	Metrics *MetricsCollector
	Tracer  *TracerProvider
}

// New builds every observability component and installs the logger as the
// process default.
func New(config Config) (*Provider, error) {
	logger := NewLogger(LogConfig{Level: config.Logging.Level, Format: config.Logging.Format})
	SetDefault(logger)

	metrics, err := NewMetricsCollector(config.Metrics)
	if err != nil {
		return nil, err
	}
	tracer, err := NewTracerProvider(config.Tracing)
	if err != nil {
		return nil, err
	}
	return &Provider{Logger: logger, Metrics: metrics, Tracer: tracer}, nil
}
