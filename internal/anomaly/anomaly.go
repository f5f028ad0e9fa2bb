// Package anomaly flags implausible scores and score combinations for review.
// Findings are advisory; nothing here rejects a submission on its own.
package anomaly

import (
	"github.com/taejunjeon/leadership/internal/i18n"
)

// Severity ranks how strongly a finding should be reviewed.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight is the severity multiplier used when aggregating findings.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityLow:
		return 0.3
	case SeverityMedium:
		return 0.6
	case SeverityHigh:
		return 1.0
	}
	return 0.5
}

// Tags identifying each rule.
const (
	TagProductionLMXMismatch = "production_lmx_mismatch"
	TagAllHigh               = "all_high"
	TagAllLow                = "all_low"
	TagCandorLMXConflict     = "candor_lmx_conflict"
	TagRapidChange           = "rapid_change"
	TagYoyoPattern           = "yoyo_pattern"
)

// Record is one finding.
type Record struct {
	Dimension string       `json:"dimension"`
	Magnitude float64      `json:"score"`
	Reason    i18n.Message `json:"reason"`
	Severity  Severity     `json:"severity"`
}

// Grade buckets an aggregate anomaly score.
type Grade string

const (
	GradeNormal   Grade = "normal"
	GradeCaution  Grade = "caution"
	GradeWarning  Grade = "warning"
	GradeCritical Grade = "critical"
)

// MessageKey returns the catalog key for the grade label.
func (g Grade) MessageKey() string {
	switch g {
	case GradeCaution:
		return i18n.KeyGradeCaution
	case GradeWarning:
		return i18n.KeyGradeWarning
	case GradeCritical:
		return i18n.KeyGradeCritical
	default:
		return i18n.KeyGradeNormal
	}
}

// Score aggregates findings into [0,100] and grades the result.
func Score(records []Record) (float64, Grade) {
	total := 0.0
	for _, r := range records {
		total += r.Severity.Weight() * r.Magnitude
	}
	score := total * 10
	if score > 100 {
		score = 100
	}
	switch {
	case score < 20:
		return score, GradeNormal
	case score < 40:
		return score, GradeCaution
	case score < 60:
		return score, GradeWarning
	default:
		return score, GradeCritical
	}
}

const maxRecommendations = 3

// Recommendations maps findings to follow-up advice, at most three.
func Recommendations(records []Record) []i18n.Message {
	var out []i18n.Message
	for _, r := range records {
		switch {
		case r.Dimension == "people_vs_production" && r.Severity == SeverityHigh:
			out = append(out, i18n.M(i18n.KeyRecommendBalance))
		case r.Dimension == TagAllHigh:
			out = append(out, i18n.M(i18n.KeyRecommendHonesty))
		case r.Dimension == TagCandorLMXConflict:
			out = append(out, i18n.M(i18n.KeyRecommendCandorRelate))
		}
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
