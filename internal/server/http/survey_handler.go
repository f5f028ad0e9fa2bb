package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/survey"
	"github.com/taejunjeon/leadership/internal/utils/id"
	"github.com/taejunjeon/leadership/internal/validation"
)

type submitResponse struct {
	ID             string            `json:"id"`
	SubjectID      string            `json:"user_id"`
	ContentHash    string            `json:"content_hash"`
	Validation     validation.Result `json:"validation"`
	AnalysisQueued bool              `json:"analysis_queued"`
}

// language picks the response language from ?lang= or Accept-Language.
func (h *handler) language(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return h.deps.Catalog.Resolve(lang)
	}
	return h.deps.Catalog.Resolve(c.GetHeader("Accept-Language"))
}

// bindSubmission decodes a submission and stamps the caller's identity on it.
func (h *handler) bindSubmission(c *gin.Context, sub *survey.Submission) bool {
	if err := c.ShouldBindJSON(sub); err != nil {
		writeError(c, statusOrBadRequest(err), "invalid request body", err)
		return false
	}
	if claims, ok := auth.ClaimsFromContext(c.Request.Context()); ok && !claims.IsAdmin() {
		sub.SubjectID = claims.SubjectID
	}
	return true
}

func statusOrBadRequest(err error) int {
	if status := statusFor(err); status == http.StatusRequestEntityTooLarge {
		return status
	}
	return http.StatusBadRequest
}

func (h *handler) submitSurvey(c *gin.Context) {
	var sub survey.Submission
	if !h.bindSubmission(c, &sub) {
		return
	}
	if strings.TrimSpace(sub.SubjectID) == "" {
		writeError(c, http.StatusBadRequest, "user_id is required", nil)
		return
	}
	ctx := c.Request.Context()
	lang := h.language(c)

	ctx, span := h.deps.Tracer.StartSpan(ctx, observability.SpanValidationSubmit, observability.SubjectAttrs(sub.SubjectID)...)
	res := h.deps.Validator.Validate(ctx, sub, validation.Options{CheckDuplicates: true, Language: lang})
	res.Render(h.deps.Catalog, lang)
	if !res.IsValid {
		observability.EndSpan(span, nil)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "survey validation failed",
			"details":    strings.Join(res.Errors, "; "),
			"validation": res,
		})
		return
	}

	rec := survey.NewRecord(id.NewSubmissionID(), sub, h.now())
	err := h.deps.Store.SaveSubmission(ctx, rec)
	observability.EndSpan(span, err)
	if err != nil {
		h.writeFailure(c, "failed to save submission", err)
		return
	}

	queued := true
	job := analysis.Job{
		SubjectID: rec.SubjectID,
		Responses: rec.Responses,
		Org:       analysis.OrgContext{Organization: rec.Organization, Department: rec.Department, Language: lang},
		RequestID: observability.RequestIDFromContext(ctx),
	}
	if err := h.deps.Analysis.Enqueue(job); err != nil {
		queued = false
		logging.FromContext(ctx, h.logger).Warn("analysis for %s not queued: %v", rec.SubjectID, err)
	}

	c.JSON(http.StatusCreated, submitResponse{
		ID:             rec.ID,
		SubjectID:      rec.SubjectID,
		ContentHash:    rec.ContentHash,
		Validation:     res,
		AnalysisQueued: queued,
	})
}

func (h *handler) listResponses(c *gin.Context) {
	subject := c.Param("subject")
	if !h.authorize(c, subject) {
		return
	}
	limit, ok := queryLimit(c, 0)
	if !ok {
		return
	}
	records, err := h.deps.Store.ListSubmissions(c.Request.Context(), subject, limit)
	if err != nil {
		h.writeFailure(c, "failed to list responses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": subject, "responses": records, "count": len(records)})
}

func (h *handler) surveyStats(c *gin.Context) {
	stats, err := h.deps.Store.SubmissionStats(c.Request.Context())
	if err != nil {
		h.writeFailure(c, "failed to load survey stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handler) questions(c *gin.Context) {
	if h.deps.Questions == nil {
		writeError(c, http.StatusServiceUnavailable, "question catalog unavailable", nil)
		return
	}
	lang := h.language(c)
	questions := h.deps.Questions.Localized(lang)
	c.JSON(http.StatusOK, gin.H{"language": lang, "questions": questions, "total": len(questions)})
}

// queryLimit parses ?limit=, answering 400 itself on bad input.
func queryLimit(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		if err == nil {
			err = errors.New("limit must not be negative")
		}
		writeError(c, http.StatusBadRequest, "invalid limit", err)
		return 0, false
	}
	return limit, true
}
