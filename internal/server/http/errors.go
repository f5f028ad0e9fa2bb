package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/auth"
	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/report"
	"github.com/taejunjeon/leadership/internal/store"
)

type apiErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(c *gin.Context, status int, message string, err error) {
	resp := apiErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, report.ErrNoTeamData),
		errors.Is(err, report.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrQueueFull),
		errors.Is(err, analysis.ErrServiceStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case isTimeout(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	case lerrors.IsDegraded(err), lerrors.IsTransient(err):
		return http.StatusServiceUnavailable
	case lerrors.IsPermanent(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeFailure logs err and answers with its mapped status.
func (h *handler) writeFailure(c *gin.Context, message string, err error) {
	status := statusFor(err)
	logger := logging.FromContext(c.Request.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("HTTP %d - %s: %v", status, message, err)
	} else {
		logger.Warn("HTTP %d - %s: %v", status, message, err)
	}
	writeError(c, status, message, err)
}
