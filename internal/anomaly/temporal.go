package anomaly

import (
	"github.com/taejunjeon/leadership/internal/i18n"
)

const (
	rapidChangeRate   = 0.5
	rapidChangeSevere = 1.0
	minYoyoMovements  = 3
)

// Movement is the change between two successive analyses of one subject.
type Movement struct {
	PeopleDelta     float64 `json:"people_delta"`
	ProductionDelta float64 `json:"production_delta"`
	Magnitude       float64 `json:"magnitude"`
	DaysBetween     int     `json:"days_between"`
}

// DetectTemporal flags rapid per-day change and a yo-yo pattern where the
// direction of change reverses on every single step.
func DetectTemporal(movements []Movement) []Record {
	var out []Record

	for _, m := range movements {
		days := m.DaysBetween
		if days < 1 {
			days = 1
		}
		daily := m.Magnitude / float64(days)
		if daily <= rapidChangeRate {
			continue
		}
		severity := SeverityMedium
		if daily > rapidChangeSevere {
			severity = SeverityHigh
		}
		out = append(out, Record{
			Dimension: TagRapidChange,
			Magnitude: daily,
			Reason:    i18n.M(i18n.KeyRapidChange, m.Magnitude, days, daily),
			Severity:  severity,
		})
	}

	if len(movements) >= minYoyoMovements {
		directions := make([]int, len(movements))
		for i, m := range movements {
			directions[i] = -1
			if m.PeopleDelta+m.ProductionDelta > 0 {
				directions[i] = 1
			}
		}
		changes := 0
		for i := 1; i < len(directions); i++ {
			if directions[i] != directions[i-1] {
				changes++
			}
		}
		if changes == len(directions)-1 {
			out = append(out, Record{
				Dimension: TagYoyoPattern,
				Magnitude: float64(changes) / float64(len(directions)),
				Reason:    i18n.M(i18n.KeyYoyoPattern),
				Severity:  SeverityMedium,
			})
		}
	}

	return out
}
