// Package http exposes the leadership API over gin.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/cache"
	"github.com/taejunjeon/leadership/internal/events"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/llm"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/report"
	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/survey"
	"github.com/taejunjeon/leadership/internal/validation"
)

// RouterDeps holds the services behind the router.
type RouterDeps struct {
	Store        store.Store
	Validator    *validation.Validator
	Analysis     *analysis.Service
	Reports      *report.Service
	LLM          *llm.Factory
	Catalog      *i18n.Catalog
	Questions    *survey.Catalog
	Validations  *cache.Validations
	BatchReports *cache.BatchReports
	Hub          *events.Hub
	Auth         *auth.Manager
	Metrics      *observability.MetricsCollector
	Tracer       *observability.TracerProvider
	Logger       logging.Logger
}

// RouterConfig holds the router's operational settings.
type RouterConfig struct {
	Environment    string
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
	MaxBodyBytes   int64
	AuthRequired   bool
}

// NewRouter wires every route.
func NewRouter(deps RouterDeps, cfg RouterConfig) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.OrNop(deps.Logger)
	if deps.Catalog == nil {
		deps.Catalog = i18n.NewCatalog(i18n.Korean)
	}

	engine := gin.New()
	engine.Use(
		recoveryMiddleware(logger),
		requestIDMiddleware(),
		observabilityMiddleware(deps.Tracer, deps.Metrics, logger),
		cors.New(corsConfig(cfg)),
		rateLimitMiddleware(newRateLimiter(RateLimitConfig{RequestsPerSecond: cfg.RateLimit, Burst: cfg.RateBurst})),
		bodyLimitMiddleware(cfg.MaxBodyBytes),
		authMiddleware(deps.Auth, cfg.AuthRequired),
	)

	h := &handler{deps: deps, cfg: cfg, logger: logger, now: time.Now}

	engine.GET("/health", h.health)
	engine.GET("/readiness", h.readiness)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := engine.Group("/api/v1")
	api.GET("/events/ws", h.requireAdmin, h.events)

	timed := api.Group("", timeoutMiddleware(cfg.RequestTimeout))

	surveyGroup := timed.Group("/survey")
	surveyGroup.POST("/submit", h.submitSurvey)
	surveyGroup.GET("/responses/:subject", h.listResponses)
	surveyGroup.GET("/stats", h.surveyStats)
	surveyGroup.GET("/questions", h.questions)

	validationGroup := timed.Group("/validation")
	validationGroup.POST("/survey", h.validateSurvey)
	validationGroup.POST("/batch", h.validateBatch)
	validationGroup.GET("/report/:id", h.batchReport)
	validationGroup.GET("/anomalies/detect", h.detectAnomalies)

	analysisGroup := timed.Group("/analysis")
	analysisGroup.POST("/trigger", h.triggerAnalysis)
	analysisGroup.GET("/user/:subject", h.latestAnalysis)
	analysisGroup.GET("/history/:subject", h.analysisHistory)
	analysisGroup.GET("/quick/:subject", h.quickAnalysis)
	analysisGroup.GET("/insights/:subject", h.insightCards)
	analysisGroup.GET("/temporal/:subject", h.temporalAnalysis)

	aiGroup := timed.Group("/ai")
	aiGroup.GET("/providers", h.providers)
	aiGroup.POST("/compare", h.compareProviders)

	reports := timed.Group("/reports")
	reports.GET("/summary/:subject", h.summaryReport)
	reports.GET("/team/:organization", h.teamReport)
	reports.GET("/pdf/:subject", h.pdfReport)

	engine.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "route not found", nil)
	})
	return engine
}

func corsConfig(cfg RouterConfig) cors.Config {
	out := cors.DefaultConfig()
	out.AllowOriginFunc = OriginAllowed(cfg)
	out.AllowCredentials = true
	out.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	out.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept-Language", requestIDHeader}
	out.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}
	out.AllowWebSockets = true
	return out
}

// OriginAllowed reports whether origin may open the websocket feed.
func OriginAllowed(cfg RouterConfig) func(origin string) bool {
	return func(origin string) bool {
		if len(cfg.AllowedOrigins) == 0 && cfg.Environment != "production" {
			return true
		}
		for _, allowed := range cfg.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}

type handler struct {
	deps   RouterDeps
	cfg    RouterConfig
	logger logging.Logger
	now    func() time.Time
}
