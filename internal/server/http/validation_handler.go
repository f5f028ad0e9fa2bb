package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/cache"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
	"github.com/taejunjeon/leadership/internal/utils/id"
	"github.com/taejunjeon/leadership/internal/validation"
)

func (h *handler) validateSurvey(c *gin.Context) {
	var sub survey.Submission
	if !h.bindSubmission(c, &sub) {
		return
	}
	lang := h.language(c)
	key := cache.ValidationKey(sub.Fingerprint(), lang)
	if cached, ok := h.deps.Validations.Get(key); ok {
		c.Header("X-Cache", "hit")
		c.JSON(http.StatusOK, cached)
		return
	}

	res := h.deps.Validator.Validate(c.Request.Context(), sub, validation.Options{CheckDuplicates: true, Language: lang})
	res.Render(h.deps.Catalog, lang)
	if res.IsValid {
		h.deps.Validations.Add(key, res)
	}
	c.Header("X-Cache", "miss")
	c.JSON(http.StatusOK, res)
}

type batchResponse struct {
	ReportID string `json:"report_id"`
	validation.BatchResult
}

func (h *handler) validateBatch(c *gin.Context) {
	var subs []survey.Submission
	if err := c.ShouldBindJSON(&subs); err != nil {
		writeError(c, statusOrBadRequest(err), "invalid request body", err)
		return
	}
	lang := h.language(c)
	if len(subs) > validation.MaxBatchSize {
		writeError(c, http.StatusBadRequest,
			h.deps.Catalog.Render(i18n.M(i18n.KeyBatchLimit, validation.MaxBatchSize), lang), nil)
		return
	}

	batch := h.deps.Validator.ValidateBatch(c.Request.Context(), subs, validation.Options{Language: lang})
	for _, item := range batch.Results {
		if item.Validation != nil {
			item.Validation.Render(h.deps.Catalog, lang)
		}
	}

	owner := ""
	if claims, ok := auth.ClaimsFromContext(c.Request.Context()); ok {
		owner = claims.SubjectID
	}
	reportID := id.NewReportID()
	h.deps.BatchReports.Add(reportID, validation.NewBatchReport(reportID, owner, subs, batch, h.now()))

	c.JSON(http.StatusOK, batchResponse{ReportID: reportID, BatchResult: batch})
}

func (h *handler) batchReport(c *gin.Context) {
	rep, ok := h.deps.BatchReports.Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "report not found", nil)
		return
	}
	if h.deps.Auth.Enabled() && rep.OwnerID != "" {
		claims, ok := auth.ClaimsFromContext(c.Request.Context())
		if !ok || !claims.CanAccess(rep.OwnerID) {
			writeError(c, http.StatusForbidden, "access to this report is not allowed", nil)
			return
		}
	}
	c.JSON(http.StatusOK, rep)
}

type detectedAnomaly struct {
	Dimension string           `json:"dimension"`
	Score     float64          `json:"score"`
	Reason    string           `json:"reason"`
	Severity  anomaly.Severity `json:"severity"`
}

type detectResponse struct {
	AnomalyScore    float64           `json:"anomaly_score"`
	Grade           string            `json:"grade"`
	Style           scoring.Style     `json:"leadership_style"`
	Anomalies       []detectedAnomaly `json:"anomalies"`
	Recommendations []string          `json:"recommendations"`
}

func (h *handler) detectAnomalies(c *gin.Context) {
	lang := h.language(c)
	names := []string{"people_score", "production_score", "candor_score", "lmx_score"}
	values := make([]float64, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(c.Query(name), 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid "+name, err)
			return
		}
		if v < 1 || v > 7 {
			writeError(c, http.StatusBadRequest, h.deps.Catalog.Render(i18n.M(i18n.KeyScoreRange), lang), nil)
			return
		}
		values[i] = v
	}
	people, production, candor, lmx := values[0], values[1], values[2], values[3]

	records := anomaly.DetectPatterns(people, production, candor, lmx)
	score, grade := anomaly.Score(records)
	found := make([]detectedAnomaly, 0, len(records))
	for _, rec := range records {
		found = append(found, detectedAnomaly{
			Dimension: rec.Dimension,
			Score:     rec.Magnitude,
			Reason:    h.deps.Catalog.Render(rec.Reason, lang),
			Severity:  rec.Severity,
		})
	}
	recommendations := h.deps.Catalog.RenderAll(anomaly.Recommendations(records), lang)

	c.JSON(http.StatusOK, detectResponse{
		AnomalyScore:    score,
		Grade:           h.deps.Catalog.Translate(grade.MessageKey(), lang),
		Style:           scoring.Classify(people, production),
		Anomalies:       found,
		Recommendations: recommendations,
	})
}
