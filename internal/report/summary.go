package report

import (
	"time"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/scoring"
)

// Trend is the direction of a score over the trend window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	trendWindow    = 90 * 24 * time.Hour
	trendThreshold = 0.1
	summaryItems   = 3
)

// CurrentAnalysis is the headline of a summary.
type CurrentAnalysis struct {
	Style  scoring.Style      `json:"leadership_style"`
	Risk   scoring.RiskLevel  `json:"risk_level"`
	Scores map[string]float64 `json:"scores"`
}

// PeerComparison places the subject among everyone else's latest style.
type PeerComparison struct {
	YourStyle         scoring.Style             `json:"your_style"`
	StyleDistribution map[scoring.Style]float64 `json:"style_distribution"`
	TotalPeers        int                       `json:"total_peers"`
}

// SummaryReport is the per-subject report.
type SummaryReport struct {
	CurrentAnalysis  CurrentAnalysis  `json:"current_analysis"`
	Trends           map[string]Trend `json:"trends"`
	PeerComparison   PeerComparison   `json:"peer_comparison"`
	KeyInsights      []string         `json:"key_insights"`
	DevelopmentFocus []string         `json:"development_focus"`
}

// BuildSummary assembles a SummaryReport. history may be in any order;
// only analyses from the last 90 days before now feed the trends.
func BuildSummary(latest analysis.Record, history []analysis.Record, peers map[scoring.Style]int, now time.Time) SummaryReport {
	cutoff := now.Add(-trendWindow)
	window := make([]analysis.Record, 0, len(history))
	for _, rec := range history {
		if !rec.CreatedAt.Before(cutoff) {
			window = append(window, rec)
		}
	}
	ordered := oldestFirst(window)

	series := func(pick func(scoring.Dimensions) float64) []float64 {
		out := make([]float64, len(ordered))
		for i, rec := range ordered {
			out[i] = pick(rec.Dimensions)
		}
		return out
	}

	total := 0
	for _, n := range peers {
		total += n
	}
	distribution := make(map[scoring.Style]float64, len(peers))
	for style, n := range peers {
		if total > 0 {
			distribution[style] = float64(n) / float64(total) * 100
		}
	}

	d := latest.Dimensions
	return SummaryReport{
		CurrentAnalysis: CurrentAnalysis{
			Style: latest.Style,
			Risk:  latest.Risk,
			Scores: map[string]float64{
				"people":     d.People,
				"production": d.Production,
				"lmx":        d.LMX,
			},
		},
		Trends: map[string]Trend{
			"people":     TrendOf(series(func(d scoring.Dimensions) float64 { return d.People })),
			"production": TrendOf(series(func(d scoring.Dimensions) float64 { return d.Production })),
			"lmx":        TrendOf(series(func(d scoring.Dimensions) float64 { return d.LMX })),
		},
		PeerComparison: PeerComparison{
			YourStyle:         latest.Style,
			StyleDistribution: distribution,
			TotalPeers:        total,
		},
		KeyInsights:      head(latest.Insights.Strengths, summaryItems),
		DevelopmentFocus: head(latest.Insights.Improvements, summaryItems),
	}
}

// TrendOf fits a least-squares line through values at x = 0..n-1.
func TrendOf(values []float64) Trend {
	n := float64(len(values))
	if len(values) < 2 {
		return TrendStable
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	switch {
	case slope > trendThreshold:
		return TrendImproving
	case slope < -trendThreshold:
		return TrendDeclining
	}
	return TrendStable
}

func oldestFirst(records []analysis.Record) []analysis.Record {
	out := make([]analysis.Record, len(records))
	copy(out, records)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return append([]string{}, items...)
}
