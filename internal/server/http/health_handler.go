package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": h.now().UTC()})
}

// readiness pings the store.
func (h *handler) readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if err := h.deps.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "store unavailable", err)
		return
	}
	body := gin.H{"status": "ready", "store": "ok"}
	if h.deps.Hub != nil {
		body["subscribers"] = h.deps.Hub.Subscribers()
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) events(c *gin.Context) {
	if h.deps.Hub == nil {
		writeError(c, http.StatusServiceUnavailable, "event feed disabled", nil)
		return
	}
	h.deps.Hub.ServeHTTP(c.Writer, c.Request)
}
