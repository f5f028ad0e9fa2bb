package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/scoring"
)

const defaultHistoryLimit = 10

type triggerRequest struct {
	SubjectID    string `json:"user_id"`
	Organization string `json:"organization"`
	Department   string `json:"department"`
	Context      string `json:"context"`
}

func (h *handler) triggerAnalysis(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, statusOrBadRequest(err), "invalid request body", err)
			return
		}
	}
	if claims, ok := auth.ClaimsFromContext(c.Request.Context()); ok && (req.SubjectID == "" || !claims.IsAdmin()) {
		req.SubjectID = claims.SubjectID
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		writeError(c, http.StatusBadRequest, "user_id is required", nil)
		return
	}
	org := analysis.OrgContext{
		Organization: req.Organization,
		Department:   req.Department,
		Description:  req.Context,
		Language:     h.language(c),
	}
	if err := h.deps.Analysis.Trigger(c.Request.Context(), req.SubjectID, org); err != nil {
		h.writeFailure(c, "failed to trigger analysis", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "user_id": req.SubjectID})
}

func (h *handler) latestAnalysis(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	rec, err := h.deps.Analysis.Latest(c.Request.Context(), subject)
	if err != nil {
		h.writeFailure(c, "analysis not available", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handler) analysisHistory(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	limit, ok := queryLimit(c, defaultHistoryLimit)
	if !ok {
		return
	}
	history, err := h.deps.Analysis.History(c.Request.Context(), subject, limit)
	if err != nil {
		h.writeFailure(c, "failed to load analysis history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": subject, "analyses": history, "count": len(history)})
}

func (h *handler) quickAnalysis(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	view, err := h.deps.Analysis.Quick(c.Request.Context(), subject)
	if err != nil {
		h.writeFailure(c, "analysis not available", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) insightCards(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	rec, err := h.deps.Analysis.Latest(c.Request.Context(), subject)
	if err != nil {
		h.writeFailure(c, "analysis not available", err)
		return
	}
	lang := h.language(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":     subject,
		"analysis_id": rec.ID,
		"cards":       analysis.Cards(rec, h.deps.Catalog, lang),
	})
}

type temporalResponse struct {
	SubjectID  string             `json:"user_id"`
	Analyses   int                `json:"analyses"`
	Movements  []anomaly.Movement `json:"movements"`
	Anomalies  []detectedAnomaly  `json:"anomalies"`
	Score      float64            `json:"anomaly_score"`
	Grade      anomaly.Grade      `json:"grade"`
	GradeLabel string             `json:"grade_label"`
}

func (h *handler) temporalAnalysis(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	rep, err := h.deps.Analysis.Temporal(c.Request.Context(), subject)
	if err != nil {
		h.writeFailure(c, "failed to evaluate history", err)
		return
	}
	lang := h.language(c)
	found := make([]detectedAnomaly, 0, len(rep.Anomalies))
	for _, rec := range rep.Anomalies {
		found = append(found, detectedAnomaly{
			Dimension: rec.Dimension,
			Score:     rec.Magnitude,
			Reason:    h.deps.Catalog.Render(rec.Reason, lang),
			Severity:  rec.Severity,
		})
	}
	c.JSON(http.StatusOK, temporalResponse{
		SubjectID:  rep.SubjectID,
		Analyses:   rep.Analyses,
		Movements:  rep.Movements,
		Anomalies:  found,
		Score:      rep.Score,
		Grade:      rep.Grade,
		GradeLabel: h.deps.Catalog.Translate(rep.Grade.MessageKey(), lang),
	})
}

func (h *handler) providers(c *gin.Context) {
	if h.deps.LLM == nil {
		c.JSON(http.StatusOK, gin.H{"providers": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": h.deps.LLM.Providers()})
}

type compareRequest struct {
	Responses    map[string]int `json:"responses"`
	Organization string         `json:"organization"`
	Department   string         `json:"department"`
	Context      string         `json:"context"`
}

func (h *handler) compareProviders(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, statusOrBadRequest(err), "invalid request body", err)
		return
	}
	if len(req.Responses) == 0 {
		writeError(c, http.StatusBadRequest, "responses are required", nil)
		return
	}
	if h.deps.LLM == nil || len(h.deps.LLM.Providers()) == 0 {
		writeError(c, http.StatusServiceUnavailable, "no narrative providers configured", nil)
		return
	}
	subject := ""
	if claims, ok := auth.ClaimsFromContext(c.Request.Context()); ok {
		subject = claims.SubjectID
	}
	d := scoring.Calculate(req.Responses)
	results := h.deps.LLM.Compare(c.Request.Context(), analysis.NarrativeRequest{
		SubjectID:  subject,
		Dimensions: d,
		Style:      scoring.Classify(d.People, d.Production),
		Risk:       scoring.AssessRisk(d),
		Org: analysis.OrgContext{
			Organization: req.Organization,
			Department:   req.Department,
			Description:  req.Context,
			Language:     h.language(c),
		},
	})
	c.JSON(http.StatusOK, gin.H{"dimensions": d, "comparisons": results})
}
