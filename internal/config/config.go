// Package config loads the service configuration from leadership.yaml, a
// .env file and LEADERSHIP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/cache"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/llm"
	"github.com/taejunjeon/leadership/internal/notify"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. LEADERSHIP_SERVER_ADDR.
const EnvPrefix = "LEADERSHIP"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig         `mapstructure:"server" yaml:"server"`
	LLM           llm.Settings         `mapstructure:"llm" yaml:"llm"`
	Analysis      AnalysisConfig       `mapstructure:"analysis" yaml:"analysis"`
	Validation    ValidationConfig     `mapstructure:"validation" yaml:"validation"`
	Store         StoreConfig          `mapstructure:"store" yaml:"store"`
	Cache         CacheConfig          `mapstructure:"cache" yaml:"cache"`
	Auth          auth.Config          `mapstructure:"auth" yaml:"auth"`
	Notify        notify.DiscordConfig `mapstructure:"notify" yaml:"notify"`
	Scheduler     SchedulerConfig      `mapstructure:"scheduler" yaml:"scheduler"`
	Observability observability.Config `mapstructure:"observability" yaml:"observability"`
	I18n          I18nConfig           `mapstructure:"i18n" yaml:"i18n"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	Env            string        `mapstructure:"env" yaml:"env"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second per client
	RateBurst      int           `mapstructure:"rate_burst" yaml:"rate_burst"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Production reports whether the server runs in production mode.
func (s ServerConfig) Production() bool {
	return strings.EqualFold(s.Env, "production")
}

// AnalysisConfig sizes the background analysis queue.
type AnalysisConfig struct {
	InsightTimeout time.Duration `mapstructure:"insight_timeout" yaml:"insight_timeout"`
	Workers        int           `mapstructure:"workers" yaml:"workers"`
	QueueSize      int           `mapstructure:"queue_size" yaml:"queue_size"`
	JobTimeout     time.Duration `mapstructure:"job_timeout" yaml:"job_timeout"`
}

// ValidationConfig overrides the validator's operational knobs.
type ValidationConfig struct {
	DuplicateWindow  time.Duration `mapstructure:"duplicate_window" yaml:"duplicate_window"`
	LookupTimeout    time.Duration `mapstructure:"lookup_timeout" yaml:"lookup_timeout"`
	BatchConcurrency int           `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`
}

// Apply overlays the non-zero fields onto base.
func (v ValidationConfig) Apply(base validation.Config) validation.Config {
	if v.DuplicateWindow > 0 {
		base.DuplicateWindow = v.DuplicateWindow
	}
	if v.LookupTimeout > 0 {
		base.LookupTimeout = v.LookupTimeout
	}
	if v.BatchConcurrency > 0 {
		base.BatchConcurrency = v.BatchConcurrency
	}
	return base
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// CacheConfig sizes the result caches.
type CacheConfig struct {
	Validation   cache.Config `mapstructure:"validation" yaml:"validation"`
	BatchReports cache.Config `mapstructure:"batch_reports" yaml:"batch_reports"`
}

// SchedulerConfig controls the temporal anomaly sweep.
type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Sweep    string        `mapstructure:"sweep" yaml:"sweep"`
	Lookback time.Duration `mapstructure:"lookback" yaml:"lookback"`
}

// I18nConfig picks the fallback language.
type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language" yaml:"default_language"`
}

type loadOptions struct {
	file    string
	envFile string
	search  []string
}

// Option customises Load.
type Option func(*loadOptions)

// WithFile reads an explicit config file; a missing file is an error.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithEnvFile loads a dotenv file other than ./.env.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// WithSearchPaths replaces the directories searched for leadership.yaml.
func WithSearchPaths(paths ...string) Option {
	return func(o *loadOptions) { o.search = paths }
}

// envAliases lets common provider variables work without the prefix.
var envAliases = map[string][]string{
	"llm.openai.api_key":    {"OPENAI_API_KEY"},
	"llm.anthropic.api_key": {"ANTHROPIC_API_KEY"},
	"store.dsn":             {"DATABASE_URL"},
	"auth.secret":           {"JWT_SECRET_KEY", "JWT_SECRET"},
	"notify.discord_token":  {"DISCORD_BOT_TOKEN"},
}

// Load resolves the configuration: defaults, then the config file, then the
// environment (a .env file only fills variables that are not already set).
func Load(opts ...Option) (Config, error) {
	options := loadOptions{envFile: ".env", search: []string{".", "$HOME/.leadership"}}
	for _, opt := range opts {
		opt(&options)
	}

	if err := godotenv.Load(options.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", options.envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, err
		}
	}

	if options.file != "" {
		v.SetConfigFile(options.file)
	} else {
		v.SetConfigName("leadership")
		v.SetConfigType("yaml")
		for _, dir := range options.search {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if options.file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	obs := observability.DefaultConfig()
	val := validation.DefaultConfig()
	defaults := map[string]any{
		"server.addr":            ":8080",
		"server.env":             "development",
		"server.allowed_origins": []string{"http://localhost:3000"},
		"server.request_timeout": 30 * time.Second,
		"server.rate_limit":      10.0,
		"server.rate_burst":      20,
		"server.max_body_bytes":  int64(1 << 20),

		"llm.default_provider":      llm.ProviderOpenAI,
		"llm.openai.api_key":        "",
		"llm.openai.model":          "gpt-4o-mini",
		"llm.openai.base_url":       "",
		"llm.openai.timeout":        30 * time.Second,
		"llm.openai.max_retries":    3,
		"llm.anthropic.api_key":     "",
		"llm.anthropic.model":       "claude-3-5-haiku-latest",
		"llm.anthropic.base_url":    "",
		"llm.anthropic.timeout":     30 * time.Second,
		"llm.anthropic.max_retries": 3,
		"llm.subject_rate":          0.2,
		"llm.subject_burst":         2,

		"analysis.insight_timeout": 30 * time.Second,
		"analysis.workers":         2,
		"analysis.queue_size":      64,
		"analysis.job_timeout":     2 * time.Minute,

		"validation.duplicate_window":  val.DuplicateWindow,
		"validation.lookup_timeout":    val.LookupTimeout,
		"validation.batch_concurrency": val.BatchConcurrency,

		"store.driver": DriverMemory,
		"store.dsn":    "",

		"cache.validation.size":    1024,
		"cache.validation.ttl":     cache.DefaultValidationTTL,
		"cache.batch_reports.size": 256,
		"cache.batch_reports.ttl":  cache.DefaultBatchReportTTL,

		"auth.secret":   "",
		"auth.issuer":   "leadership",
		"auth.required": false,

		"notify.discord_token":   "",
		"notify.discord_channel": "",

		"scheduler.enabled":  false,
		"scheduler.sweep":    "0 3 * * *",
		"scheduler.lookback": 24 * time.Hour,

		"observability.logging.level":           obs.Logging.Level,
		"observability.logging.format":          obs.Logging.Format,
		"observability.metrics.enabled":         obs.Metrics.Enabled,
		"observability.metrics.prometheus_port": obs.Metrics.PrometheusPort,
		"observability.tracing.enabled":         obs.Tracing.Enabled,
		"observability.tracing.exporter":        obs.Tracing.Exporter,
		"observability.tracing.otlp_endpoint":   obs.Tracing.OTLPEndpoint,
		"observability.tracing.zipkin_endpoint": obs.Tracing.ZipkinEndpoint,
		"observability.tracing.sample_rate":     obs.Tracing.SampleRate,
		"observability.tracing.service_name":    obs.Tracing.ServiceName,
		"observability.tracing.service_version": obs.Tracing.ServiceVersion,

		"i18n.default_language": i18n.Korean,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func normalize(cfg *Config) {
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.LLM.DefaultProvider = strings.ToLower(strings.TrimSpace(cfg.LLM.DefaultProvider))
	cfg.I18n.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.I18n.DefaultLanguage))
	origins := cfg.Server.AllowedOrigins[:0]
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.Server.AllowedOrigins = origins
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite, DriverMySQL:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	switch c.LLM.DefaultProvider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unknown llm.default_provider %q", c.LLM.DefaultProvider))
	}
	if c.Auth.Required && c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required when auth.required is set"))
	}
	if c.I18n.DefaultLanguage != i18n.English && c.I18n.DefaultLanguage != i18n.Korean {
		errs = append(errs, fmt.Errorf("unsupported i18n.default_language %q", c.I18n.DefaultLanguage))
	}
	if c.Analysis.Workers < 1 {
		errs = append(errs, errors.New("analysis.workers must be at least 1"))
	}
	return errors.Join(errs...)
}
