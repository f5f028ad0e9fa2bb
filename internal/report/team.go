package report

import (
	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
)

// Team health labels.
const (
	HealthExcellent      = "excellent"
	HealthGood           = "good"
	HealthModerate       = "moderate"
	HealthNeedsAttention = "needs_attention"
)

const (
	minStyleDiversity  = 3
	coachingRiskRatio  = 0.3
	lowTeamScore       = 4.0
	maxRecommendations = 5
)

// TeamReport aggregates an organization's latest analyses.
type TeamReport struct {
	Organization      string                    `json:"organization"`
	Department        string                    `json:"department,omitempty"`
	TotalMembers      int                       `json:"total_members"`
	AnalyzedMembers   int                       `json:"analyzed_members"`
	StyleDistribution map[scoring.Style]int     `json:"style_distribution"`
	RiskDistribution  map[scoring.RiskLevel]int `json:"risk_distribution"`
	AverageScores     map[string]float64        `json:"average_scores"`
	TeamHealth        string                    `json:"team_health"`
	Recommendations   []string                  `json:"recommendations"`

	recommendations []i18n.Message
}

// RecommendationMessages returns the unrendered recommendations.
func (t TeamReport) RecommendationMessages() []i18n.Message { return t.recommendations }

// BuildTeam aggregates members, one latest analysis per subject.
func BuildTeam(organization, department string, members []analysis.Record) TeamReport {
	styles := map[scoring.Style]int{}
	risks := map[scoring.RiskLevel]int{scoring.RiskLow: 0, scoring.RiskMedium: 0, scoring.RiskHigh: 0}
	var people, production, lmx float64
	for _, rec := range members {
		styles[rec.Style]++
		risks[rec.Risk]++
		people += rec.Dimensions.People
		production += rec.Dimensions.Production
		lmx += rec.Dimensions.LMX
	}
	averages := map[string]float64{"people": 0, "production": 0, "lmx": 0}
	if n := float64(len(members)); n > 0 {
		averages["people"] = people / n
		averages["production"] = production / n
		averages["lmx"] = lmx / n
	}

	recs := teamRecommendations(styles, risks, averages)
	return TeamReport{
		Organization:      organization,
		Department:        department,
		TotalMembers:      len(members),
		AnalyzedMembers:   len(members),
		StyleDistribution: styles,
		RiskDistribution:  risks,
		AverageScores:     averages,
		TeamHealth:        TeamHealth(averages, risks),
		Recommendations:   []string{},
		recommendations:   recs,
	}
}

func highRiskRatio(risks map[scoring.RiskLevel]int) float64 {
	total := 0
	for _, n := range risks {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(risks[scoring.RiskHigh]) / float64(total)
}

// TeamHealth grades the mean of the average scores against the share of
// high-risk members.
func TeamHealth(averages map[string]float64, risks map[scoring.RiskLevel]int) string {
	avg := 0.0
	for _, v := range averages {
		avg += v
	}
	if len(averages) > 0 {
		avg /= float64(len(averages))
	}
	ratio := highRiskRatio(risks)
	switch {
	case avg >= 5 && ratio < 0.2:
		return HealthExcellent
	case avg >= 4 && ratio < 0.3:
		return HealthGood
	case avg >= 3 && ratio < 0.5:
		return HealthModerate
	}
	return HealthNeedsAttention
}

func teamRecommendations(styles map[scoring.Style]int, risks map[scoring.RiskLevel]int, averages map[string]float64) []i18n.Message {
	var out []i18n.Message
	if len(styles) < minStyleDiversity {
		out = append(out, i18n.M(i18n.KeyTeamDiversity))
	}
	if highRiskRatio(risks) > coachingRiskRatio {
		out = append(out, i18n.M(i18n.KeyTeamCoaching))
	}
	if averages["people"] < lowTeamScore {
		out = append(out, i18n.M(i18n.KeyTeamBuilding))
	}
	if averages["production"] < lowTeamScore {
		out = append(out, i18n.M(i18n.KeyTeamGoals))
	}
	if averages["lmx"] < lowTeamScore {
		out = append(out, i18n.M(i18n.KeyTeamTrust))
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
