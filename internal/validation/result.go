package validation

import (
	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/i18n"
)

// Outlier is a rendered pattern finding.
type Outlier struct {
	Dimension string           `json:"dimension"`
	Score     float64          `json:"score"`
	Reason    string           `json:"reason"`
	Severity  anomaly.Severity `json:"severity"`
}

// Result accumulates the findings of every validation step. IsValid only
// ever moves from true to false.
type Result struct {
	IsValid           bool      `json:"is_valid"`
	Errors            []string  `json:"errors"`
	Warnings          []string  `json:"warnings"`
	Outliers          []Outlier `json:"outliers"`
	CompletenessScore float64   `json:"completeness_score"`
	ConsistencyScore  float64   `json:"consistency_score"`

	errors   []i18n.Message
	warnings []i18n.Message
	records  []anomaly.Record
}

func newResult() *Result {
	return &Result{
		IsValid:           true,
		Errors:            []string{},
		Warnings:          []string{},
		Outliers:          []Outlier{},
		CompletenessScore: 1,
		ConsistencyScore:  1,
	}
}

func (r *Result) addError(msg i18n.Message) {
	r.errors = append(r.errors, msg)
	r.IsValid = false
}

func (r *Result) addWarning(msg i18n.Message) {
	r.warnings = append(r.warnings, msg)
}

func (r *Result) addOutlier(rec anomaly.Record) {
	r.records = append(r.records, rec)
	r.addWarning(i18n.M(i18n.KeyPatternOutlier, rec.Reason))
}

// ErrorMessages returns the unrendered hard errors.
func (r *Result) ErrorMessages() []i18n.Message { return r.errors }

// WarningMessages returns the unrendered warnings.
func (r *Result) WarningMessages() []i18n.Message { return r.warnings }

// Anomalies returns the pattern findings behind Outliers.
func (r *Result) Anomalies() []anomaly.Record { return r.records }

// Render fills the string fields in lang.
func (r *Result) Render(catalog *i18n.Catalog, lang string) {
	r.Errors = catalog.RenderAll(r.errors, lang)
	r.Warnings = catalog.RenderAll(r.warnings, lang)
	r.Outliers = make([]Outlier, 0, len(r.records))
	for _, rec := range r.records {
		r.Outliers = append(r.Outliers, Outlier{
			Dimension: rec.Dimension,
			Score:     rec.Magnitude,
			Reason:    catalog.Render(rec.Reason, lang),
			Severity:  rec.Severity,
		})
	}
}
