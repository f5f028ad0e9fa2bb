package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/utils/id"
)

const requestIDHeader = "X-Request-ID"

func recoveryMiddleware(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		writeError(c, http.StatusInternalServerError, "internal server error", nil)
	})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = id.NewRequestID()
		}
		ctx := observability.ContextWithRequestID(c.Request.Context(), requestID)
		ctx = id.WithLogID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// observabilityMiddleware traces the request, records its metrics and logs
// its latency.
func observabilityMiddleware(tracer *observability.TracerProvider, metrics *observability.MetricsCollector, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := tracer.StartSpan(c.Request.Context(), observability.SpanHTTPServer,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.target", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)
		var err error
		if status >= http.StatusInternalServerError {
			err = fmt.Errorf("http %d", status)
		}
		span.SetAttributes(attribute.String("http.route", route), attribute.Int("http.status_code", status))
		observability.EndSpan(span, err)
		metrics.RecordHTTPRequest(ctx, c.Request.Method, route, status, latency)
		logging.FromContext(ctx, logger).Debug("route=%s method=%s status=%d latency_ms=%.2f",
			route, c.Request.Method, status, float64(latency.Microseconds())/1000.0)
	}
}

func rateLimitMiddleware(limiter *rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions && !limiter.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			writeError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

// timeoutMiddleware bounds the handler's context; handlers that honour it
// surface a 504 through writeFailure.
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// authMiddleware verifies any bearer token presented. With required set,
// requests without a valid token are rejected.
func authMiddleware(manager *auth.Manager, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !manager.Enabled() || c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token") // browsers cannot set headers on websocket upgrades
		}
		if token == "" {
			if required {
				writeError(c, http.StatusUnauthorized, "authentication required", auth.ErrMissingToken)
				return
			}
			c.Next()
			return
		}
		claims, err := manager.Parse(token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, "invalid token", err)
			return
		}
		ctx := auth.WithClaims(c.Request.Context(), claims)
		ctx = id.WithSubjectID(ctx, claims.SubjectID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func isPublicPath(path string) bool {
	switch path {
	case "/health", "/readiness", "/metrics":
		return true
	}
	return false
}

// requireAdmin admits admins, and everyone when auth is disabled.
func (h *handler) requireAdmin(c *gin.Context) {
	if !h.deps.Auth.Enabled() {
		c.Next()
		return
	}
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		writeError(c, http.StatusUnauthorized, "authentication required", auth.ErrMissingToken)
		return
	}
	if !claims.IsAdmin() {
		writeError(c, http.StatusForbidden, "admin role required", nil)
		return
	}
	c.Next()
}

// authorize checks that the caller may read subject's data. Anonymous
// callers pass only when tokens are optional.
func (h *handler) authorize(c *gin.Context, subject string) bool {
	if !h.deps.Auth.Enabled() {
		return true
	}
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		if h.cfg.AuthRequired {
			writeError(c, http.StatusUnauthorized, "authentication required", auth.ErrMissingToken)
			return false
		}
		return true
	}
	if !claims.CanAccess(subject) {
		writeError(c, http.StatusForbidden, "access to this subject is not allowed", nil)
		return false
	}
	return true
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
