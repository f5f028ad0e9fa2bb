package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
)

const quickItems = 3

// QuickView is the compact analysis shown on dashboards.
type QuickView struct {
	Style             scoring.Style      `json:"leadership_style"`
	Risk              scoring.RiskLevel  `json:"risk_level"`
	KeyStrengths      []string           `json:"key_strengths"`
	ActionItems       []string           `json:"action_items"`
	VisualizationData map[string]float64 `json:"visualization_data"`
}

// Quick derives the dashboard view from rec.
func Quick(rec Record) QuickView {
	d := rec.Dimensions
	return QuickView{
		Style:        rec.Style,
		Risk:         rec.Risk,
		KeyStrengths: head(rec.Insights.Strengths, quickItems),
		ActionItems:  head(rec.Insights.Improvements, quickItems),
		VisualizationData: map[string]float64{
			"people":     d.People,
			"production": d.Production,
			"candor":     (d.Care + d.Challenge) / 2,
			"lmx":        d.LMX,
			"influence":  (d.Machiavellianism + d.Narcissism + d.Psychopathy) / 3,
		},
	}
}

// InsightCard is a prioritised piece of advice.
type InsightCard struct {
	Category       string  `json:"category"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
	Priority       int     `json:"priority"`
	Confidence     float64 `json:"confidence"`
}

// Cards builds the strength, development and style cards for rec in lang.
// Cards with nothing to say are omitted.
func Cards(rec Record, catalog *i18n.Catalog, lang string) []InsightCard {
	cards := []InsightCard{}
	if len(rec.Insights.Strengths) > 0 {
		cards = append(cards, InsightCard{
			Category:       "strengths",
			Title:          catalog.Translate(i18n.KeyCardStrengthTitle, lang),
			Description:    catalog.Render(i18n.M(i18n.KeyCardStrengthDescription, strings.Join(head(rec.Insights.Strengths, 2), ", ")), lang),
			Recommendation: catalog.Translate(i18n.KeyCardStrengthAdvice, lang),
			Priority:       1,
			Confidence:     0.85,
		})
	}
	if len(rec.Insights.Improvements) > 0 {
		cards = append(cards, InsightCard{
			Category:       "development",
			Title:          catalog.Translate(i18n.KeyCardDevelopTitle, lang),
			Description:    catalog.Render(i18n.M(i18n.KeyCardDevelopDescription, rec.Insights.Improvements[0]), lang),
			Recommendation: catalog.Translate(i18n.KeyCardDevelopAdvice, lang),
			Priority:       2,
			Confidence:     0.90,
		})
	}
	if rec.Insights.StyleDescription != "" {
		cards = append(cards, InsightCard{
			Category:       "style",
			Title:          catalog.Translate(i18n.KeyCardStyleTitle, lang),
			Description:    rec.Insights.StyleDescription,
			Recommendation: catalog.Translate(i18n.KeyCardStyleAdvice, lang),
			Priority:       3,
			Confidence:     0.80,
		})
	}
	return cards
}

// Movements converts a subject's history into successive changes, oldest
// first. The input order does not matter.
func Movements(history []Record) []anomaly.Movement {
	if len(history) < 2 {
		return nil
	}
	ordered := make([]Record, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	out := make([]anomaly.Movement, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		dp := cur.Dimensions.People - prev.Dimensions.People
		dprod := cur.Dimensions.Production - prev.Dimensions.Production
		out = append(out, anomaly.Movement{
			PeopleDelta:     dp,
			ProductionDelta: dprod,
			Magnitude:       math.Sqrt(dp*dp + dprod*dprod),
			DaysBetween:     daysBetween(prev.CreatedAt, cur.CreatedAt),
		})
	}
	return out
}

func daysBetween(a, b time.Time) int {
	days := int(b.Sub(a).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// TemporalReport is the temporal anomaly view of a subject.
type TemporalReport struct {
	SubjectID string             `json:"user_id"`
	Analyses  int                `json:"analyses"`
	Movements []anomaly.Movement `json:"movements"`
	Anomalies []anomaly.Record   `json:"anomalies"`
	Score     float64            `json:"anomaly_score"`
	Grade     anomaly.Grade      `json:"grade"`
}

// Temporal runs the temporal detector over history.
func Temporal(subjectID string, history []Record) TemporalReport {
	movements := Movements(history)
	records := anomaly.DetectTemporal(movements)
	score, grade := anomaly.Score(records)
	if movements == nil {
		movements = []anomaly.Movement{}
	}
	if records == nil {
		records = []anomaly.Record{}
	}
	return TemporalReport{
		SubjectID: subjectID,
		Analyses:  len(history),
		Movements: movements,
		Anomalies: records,
		Score:     score,
		Grade:     grade,
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
