package scoring

// Style is a Blake-Mouton grid position.
type Style string

const (
	StyleImpoverished        Style = "Impoverished"
	StyleCountryClub         Style = "Country-Club"
	StyleAuthorityCompliance Style = "Authority-Compliance"
	StyleMiddleOfTheRoad     Style = "Middle-of-the-Road"
	StyleTeamLeader          Style = "Team-Leader"
	StyleTaskManager         Style = "Task-Manager"
	StyleCustom              Style = "Custom"
)

// AllStyles lists every style in classification order.
var AllStyles = []Style{
	StyleImpoverished,
	StyleCountryClub,
	StyleAuthorityCompliance,
	StyleMiddleOfTheRoad,
	StyleTeamLeader,
	StyleTaskManager,
	StyleCustom,
}

const (
	bandLow     = 3.0
	bandMidLow  = 4.0
	bandMidHigh = 5.0
	bandHigh    = 6.0
)

// Classify places (people, production) on the grid. Rules are checked in
// order and the first match wins; Custom catches everything else.
func Classify(people, production float64) Style {
	switch {
	case people <= bandLow && production <= bandLow:
		return StyleImpoverished
	case people >= bandHigh && production <= bandLow:
		return StyleCountryClub
	case people <= bandLow && production >= bandHigh:
		return StyleAuthorityCompliance
	case between(people, bandMidLow, bandMidHigh) && between(production, bandMidLow, bandMidHigh):
		return StyleMiddleOfTheRoad
	case people >= bandHigh && production >= bandHigh:
		return StyleTeamLeader
	case production > people && production >= bandMidHigh:
		return StyleTaskManager
	default:
		return StyleCustom
	}
}

// ParseStyle resolves a stored style label.
func ParseStyle(s string) (Style, bool) {
	for _, style := range AllStyles {
		if string(style) == s {
			return style, true
		}
	}
	return "", false
}

func between(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
