package scoring

// RiskLevel is the ordinal hidden-influence risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels: low < medium < high.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	}
	return -1
}

// RiskScore is the mitigated dark-trait score AssessRisk thresholds.
func RiskScore(d Dimensions) float64 {
	dark := 0.4*d.Machiavellianism + 0.3*d.Narcissism + 0.3*d.Psychopathy
	mitigation := (d.LMX + d.Care) / 14
	return dark * (1 - mitigation*0.3)
}

// AssessRisk maps the mitigated dark-trait score onto a risk level.
func AssessRisk(d Dimensions) RiskLevel {
	adjusted := RiskScore(d)
	switch {
	case adjusted <= 2.0:
		return RiskLow
	case adjusted <= 3.5:
		return RiskMedium
	default:
		return RiskHigh
	}
}
