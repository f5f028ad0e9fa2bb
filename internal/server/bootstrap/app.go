// Package bootstrap assembles the service from its configuration and runs
// the HTTP server until shutdown.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/cache"
	"github.com/taejunjeon/leadership/internal/config"
	"github.com/taejunjeon/leadership/internal/events"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/llm"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/notify"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/report"
	"github.com/taejunjeon/leadership/internal/scheduler"
	serverHTTP "github.com/taejunjeon/leadership/internal/server/http"
	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/store/postgres"
	"github.com/taejunjeon/leadership/internal/store/sqlstore"
	"github.com/taejunjeon/leadership/internal/survey"
	"github.com/taejunjeon/leadership/internal/validation"
)

// App is the assembled service.
type App struct {
	Config     config.Config
	Obs        *observability.Provider
	Logger     logging.Logger
	Catalog    *i18n.Catalog
	Questions  *survey.Catalog
	Store      store.Store
	Validator  *validation.Validator
	LLM        *llm.Factory
	Analysis   *analysis.Service
	Reports    *report.Service
	Hub        *events.Hub
	Dispatcher *notify.Dispatcher
	Scheduler  *scheduler.Scheduler
	Router     *gin.Engine
	Degraded   *Degraded
}

// OpenStore connects the configured backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return store.NewMemory(), nil
	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverSQLite, config.DriverMySQL:
		st, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Build wires every component. Store and observability failures abort;
// notification channels degrade to logging.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg, Degraded: NewDegraded()}
	logger := logging.NewComponentLogger("bootstrap")

	required := []Stage{
		{Name: "observability", Required: true, Init: func() error {
			obs, err := observability.New(cfg.Observability)
			if err != nil {
				return err
			}
			app.Obs = obs
			logger = logging.FromObservabilityWithComponent(obs.Logger, "bootstrap")
			return nil
		}},
		{Name: "catalogs", Required: true, Init: func() error {
			app.Catalog = i18n.NewCatalog(cfg.I18n.DefaultLanguage)
			questions, err := survey.LoadCatalog()
			app.Questions = questions
			return err
		}},
		{Name: "store", Required: true, Init: func() error {
			st, err := OpenStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			app.Store = st
			return nil
		}},
	}
	if err := RunStages(required, app.Degraded, logger); err != nil {
		_ = app.release(context.Background())
		return nil, err
	}
	app.Logger = logger
	LogConfiguration(logger, cfg)

	var notifier notify.Notifier = notify.NewLogNotifier(logging.NewComponentLogger("notify"))
	optional := []Stage{
		{Name: "discord", Init: func() error {
			if !cfg.Notify.Enabled() {
				return nil
			}
			discord, err := notify.NewDiscordNotifier(cfg.Notify)
			if err != nil {
				return err
			}
			notifier = discord
			return nil
		}},
	}
	_ = RunStages(optional, app.Degraded, logger)

	metrics := app.Obs.Metrics
	tracer := app.Obs.Tracer

	routerCfg := serverHTTP.RouterConfig{
		Environment:    cfg.Server.Env,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AuthRequired:   cfg.Auth.Required,
	}

	app.Hub = events.NewHub(serverHTTP.OriginAllowed(routerCfg), logging.NewComponentLogger("events"))
	app.Dispatcher = notify.NewDispatcher(notifier, app.Hub, logging.NewComponentLogger("notify.dispatcher"))

	app.Validator = validation.New(cfg.Validation.Apply(validation.DefaultConfig()), app.Catalog,
		validation.WithLookup(app.Store),
		validation.WithRecorder(metrics),
		validation.WithLogger(logging.NewComponentLogger("validation")),
	)

	app.LLM = llm.NewFactory(cfg.LLM, metrics, tracer)
	composer := analysis.NewComposer(app.LLM.DefaultGenerator(), app.Catalog,
		analysis.WithInsightTimeout(cfg.Analysis.InsightTimeout),
		analysis.WithTracer(tracer),
	)
	app.Analysis = analysis.NewService(composer, app.Store,
		analysis.ServiceConfig{
			Workers:    cfg.Analysis.Workers,
			QueueSize:  cfg.Analysis.QueueSize,
			JobTimeout: cfg.Analysis.JobTimeout,
		},
		analysis.WithRecorder(metrics),
		analysis.WithObserver(app.Dispatcher),
	)
	app.Reports = report.NewService(app.Store, app.Catalog)

	app.Scheduler = scheduler.New(scheduler.Config{
		Enabled:  cfg.Scheduler.Enabled,
		Sweep:    cfg.Scheduler.Sweep,
		Lookback: cfg.Scheduler.Lookback,
	}, app.Store, app.Analysis, app.Dispatcher, logging.NewComponentLogger("scheduler"))

	app.Router = serverHTTP.NewRouter(serverHTTP.RouterDeps{
		Store:        app.Store,
		Validator:    app.Validator,
		Analysis:     app.Analysis,
		Reports:      app.Reports,
		LLM:          app.LLM,
		Catalog:      app.Catalog,
		Questions:    app.Questions,
		Validations:  cache.NewValidations(cfg.Cache.Validation),
		BatchReports: cache.NewBatchReports(cfg.Cache.BatchReports),
		Hub:          app.Hub,
		Auth:         auth.NewManager(cfg.Auth),
		Metrics:      metrics,
		Tracer:       tracer,
		Logger:       logging.NewComponentLogger("http"),
	}, routerCfg)

	if !app.Degraded.IsEmpty() {
		logger.Warn("[Bootstrap] Starting in degraded mode: %v", app.Degraded.Map())
	}
	return app, nil
}

// Start launches the background workers and the sweep.
func (a *App) Start(ctx context.Context) error {
	a.Analysis.Start()
	if err := a.Scheduler.Start(ctx); err != nil {
		a.Degraded.Record("scheduler", err.Error())
		a.Logger.Warn("[Bootstrap] Scheduler disabled: %v", err)
	}
	return nil
}

// Shutdown stops everything Build and Start created, draining queued
// analyses first.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Analysis != nil {
		if err := a.Analysis.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("analysis: %w", err))
		}
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if err := a.release(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) release(ctx context.Context) error {
	var errs []error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if a.Obs != nil {
		if err := a.Obs.Metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
		if err := a.Obs.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LogConfiguration logs the effective settings with secrets masked.
func LogConfiguration(logger logging.Logger, cfg config.Config) {
	logger = logging.OrNop(logger)
	logger.Info("=== Server Configuration ===")
	logger.Info("Listen: %s (env=%s)", cfg.Server.Addr, cfg.Server.Env)
	logger.Info("Store: %s", cfg.Store.Driver)
	logger.Info("Default language: %s", cfg.I18n.DefaultLanguage)
	logger.Info("LLM default provider: %s", cfg.LLM.DefaultProvider)
	for name, c := range map[string]llm.Config{llm.ProviderOpenAI: cfg.LLM.OpenAI, llm.ProviderAnthropic: cfg.LLM.Anthropic} {
		if c.Configured() {
			logger.Info("  %s: model=%s key=%s", name, c.Model, observability.SanitizeAPIKey(c.APIKey))
		} else {
			logger.Info("  %s: not configured", name)
		}
	}
	logger.Info("Auth: enabled=%v required=%v", cfg.Auth.Secret != "", cfg.Auth.Required)
	logger.Info("Analysis: workers=%d queue=%d", cfg.Analysis.Workers, cfg.Analysis.QueueSize)
	logger.Info("Scheduler: enabled=%v sweep=%q", cfg.Scheduler.Enabled, cfg.Scheduler.Sweep)
	logger.Info("Discord alerts: %v", cfg.Notify.Enabled())
	logger.Info("===========================")
}
