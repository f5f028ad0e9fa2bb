package anomaly

import (
	"math"

	"github.com/taejunjeon/leadership/internal/i18n"
)

const extremeGap = 5.0

// DetectPatterns checks one set of section averages against fixed
// contradiction rules. Rules are independent; several may fire at once.
func DetectPatterns(people, production, candor, lmx float64) []Record {
	var out []Record

	pairs := []struct {
		a, b   string
		va, vb float64
	}{
		{"people", "production", people, production},
		{"candor", "lmx", candor, lmx},
	}
	for _, p := range pairs {
		diff := math.Abs(p.va - p.vb)
		if diff > extremeGap {
			out = append(out, Record{
				Dimension: p.a + "_vs_" + p.b,
				Magnitude: diff,
				Reason:    i18n.M(i18n.KeyExtremeGap, p.a, p.b, diff),
				Severity:  SeverityHigh,
			})
		}
	}

	if production > 6 && lmx < 2 {
		out = append(out, Record{
			Dimension: TagProductionLMXMismatch,
			Magnitude: production - lmx,
			Reason:    i18n.M(i18n.KeyProductionLMXMismatch),
			Severity:  SeverityHigh,
		})
	}

	all := []float64{people, production, candor, lmx}
	mean := (people + production + candor + lmx) / 4
	if every(all, func(v float64) bool { return v > 6.5 }) {
		out = append(out, Record{
			Dimension: TagAllHigh,
			Magnitude: mean,
			Reason:    i18n.M(i18n.KeyAllHigh),
			Severity:  SeverityMedium,
		})
	} else if every(all, func(v float64) bool { return v < 1.5 }) {
		out = append(out, Record{
			Dimension: TagAllLow,
			Magnitude: mean,
			Reason:    i18n.M(i18n.KeyAllLow),
			Severity:  SeverityMedium,
		})
	}

	if candor > 6 && lmx < 3 {
		out = append(out, Record{
			Dimension: TagCandorLMXConflict,
			Magnitude: candor - lmx,
			Reason:    i18n.M(i18n.KeyCandorLMXConflict),
			Severity:  SeverityMedium,
		})
	}

	return out
}

func every(values []float64, pred func(float64) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}
