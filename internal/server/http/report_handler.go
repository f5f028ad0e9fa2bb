package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) summaryReport(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	rep, err := h.deps.Reports.Summary(c.Request.Context(), subject)
	if err != nil {
		h.writeFailure(c, "summary report not available", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *handler) teamReport(c *gin.Context) {
	rep, err := h.deps.Reports.Team(c.Request.Context(), c.Param("organization"), c.Query("department"), h.language(c))
	if err != nil {
		h.writeFailure(c, "team report not available", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *handler) pdfReport(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	doc, err := h.deps.Reports.PDF(c.Request.Context(), subject, c.Query("analysis_id"))
	if err != nil {
		h.writeFailure(c, "pdf report not available", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}
