// Package scoring turns raw survey ratings into dimension scores and derives
// the leadership style and risk level from them. Everything here is pure.
package scoring

import "strings"

// Dimension names a scored axis.
type Dimension string

const (
	People           Dimension = "people"
	Production       Dimension = "production"
	Care             Dimension = "care"
	Challenge        Dimension = "challenge"
	LMX              Dimension = "lmx"
	Machiavellianism Dimension = "machiavellianism"
	Narcissism       Dimension = "narcissism"
	Psychopathy      Dimension = "psychopathy"
)

// ItemGroup is the fixed set of item ids averaged into one dimension.
type ItemGroup struct {
	Dimension Dimension
	Items     []string
	// Hidden groups are rated 1..7 but reported on a 1..5 scale.
	Hidden bool
}

// Items is the canonical item configuration shared by scoring and validation.
var Items = []ItemGroup{
	{Dimension: People, Items: []string{"bm_1", "bm_3", "bm_5", "bm_7", "bm_9", "bm_11", "bm_13"}},
	{Dimension: Production, Items: []string{"bm_2", "bm_4", "bm_6", "bm_8", "bm_10", "bm_12", "bm_14"}},
	{Dimension: Care, Items: []string{"rc_1", "rc_3", "rc_5", "rc_7", "rc_9"}},
	{Dimension: Challenge, Items: []string{"rc_2", "rc_4", "rc_6", "rc_8", "rc_10"}},
	{Dimension: LMX, Items: []string{"lmx_1", "lmx_2", "lmx_3", "lmx_4", "lmx_5", "lmx_6", "lmx_7", "lmx_8", "lmx_9", "lmx_10"}},
	{Dimension: Machiavellianism, Items: []string{"ig_1", "ig_4", "ig_7"}, Hidden: true},
	{Dimension: Narcissism, Items: []string{"ig_2", "ig_5", "ig_8"}, Hidden: true},
	{Dimension: Psychopathy, Items: []string{"ig_3", "ig_6", "ig_9"}, Hidden: true},
}

// Scale bounds for raw ratings and reported scores.
const (
	MinRating       = 1
	MaxRating       = 7
	HiddenMaxScore  = 5.0
	defaultRating   = 4.0
	defaultHidden   = 3.0
	hiddenRescale   = 5.0 / 7.0
	decimalRounding = 100
)

// Section groups dimensions the way respondents see them on the survey.
type Section string

const (
	SectionPeople     Section = "people"
	SectionProduction Section = "production"
	SectionCandor     Section = "candor"
	SectionLMX        Section = "lmx"
	SectionInfluence  Section = "influence"
)

// Sections lists the survey sections in presentation order.
var Sections = []Section{SectionPeople, SectionProduction, SectionCandor, SectionLMX, SectionInfluence}

// SectionOf maps an item id to its survey section.
func SectionOf(itemID string) (Section, bool) {
	dim, ok := DimensionOf(itemID)
	if !ok {
		return "", false
	}
	switch dim {
	case Care, Challenge:
		return SectionCandor, true
	case Machiavellianism, Narcissism, Psychopathy:
		return SectionInfluence, true
	default:
		return Section(dim), true
	}
}

// ExpectedItems returns how many items each section holds.
func ExpectedItems() map[Section]int {
	out := make(map[Section]int, len(Sections))
	for _, group := range Items {
		section, _ := SectionOf(group.Items[0])
		out[section] += len(group.Items)
	}
	return out
}

// TotalItems is the number of items on a complete survey.
func TotalItems() int {
	n := 0
	for _, group := range Items {
		n += len(group.Items)
	}
	return n
}

var itemIndex = func() map[string]Dimension {
	idx := make(map[string]Dimension)
	for _, group := range Items {
		for _, item := range group.Items {
			idx[item] = group.Dimension
		}
	}
	return idx
}()

// DimensionOf returns the dimension an item id belongs to.
func DimensionOf(itemID string) (Dimension, bool) {
	dim, ok := itemIndex[strings.ToLower(strings.TrimSpace(itemID))]
	return dim, ok
}
