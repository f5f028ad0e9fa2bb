package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(v int) map[string]int {
	raw := make(map[string]int)
	for _, group := range Items {
		for _, item := range group.Items {
			raw[item] = v
		}
	}
	return raw
}

func visibleOnly(v int) map[string]int {
	raw := uniform(v)
	for _, group := range Items {
		if !group.Hidden {
			continue
		}
		for _, item := range group.Items {
			delete(raw, item)
		}
	}
	return raw
}

func TestItemConfiguration(t *testing.T) {
	assert.Equal(t, 43, TotalItems())
	assert.Equal(t, map[Section]int{
		SectionPeople:     7,
		SectionProduction: 7,
		SectionCandor:     10,
		SectionLMX:        10,
		SectionInfluence:  9,
	}, ExpectedItems())

	dim, ok := DimensionOf(" RC_4 ")
	require.True(t, ok)
	assert.Equal(t, Challenge, dim)
	_, ok = DimensionOf("bm_15")
	assert.False(t, ok)
}

func TestCalculateMidpoint(t *testing.T) {
	d := Calculate(visibleOnly(4))
	assert.Equal(t, 4.0, d.People)
	assert.Equal(t, 4.0, d.Production)
	assert.Equal(t, 4.0, d.LMX)
	assert.Equal(t, 2.14, d.Machiavellianism)
	assert.Equal(t, StyleMiddleOfTheRoad, Classify(d.People, d.Production))
	assert.Equal(t, RiskLow, AssessRisk(d))
}

func TestCalculateHiddenRescale(t *testing.T) {
	d := Calculate(uniform(4))
	assert.Equal(t, 2.86, d.Machiavellianism)
	assert.Equal(t, RiskMedium, AssessRisk(d))
}

func TestCalculateMissingItemsUseMidpoint(t *testing.T) {
	d := Calculate(map[string]int{"bm_1": 7})
	assert.Equal(t, 4.43, d.People)
	assert.Equal(t, 4.0, d.Production)
	// 3 * 5/7
	assert.Equal(t, 2.14, d.Narcissism)
}

func TestCalculateIsDeterministic(t *testing.T) {
	raw := map[string]int{"bm_1": 2, "bm_2": 6, "rc_1": 5, "lmx_3": 1, "ig_4": 7}
	first := Calculate(raw)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Calculate(raw))
	}
}

func TestCalculateRangeInvariant(t *testing.T) {
	for v := MinRating; v <= MaxRating; v++ {
		d := Calculate(uniform(v))
		for _, group := range Items {
			score := d.Get(group.Dimension)
			hi := float64(MaxRating)
			if group.Hidden {
				hi = HiddenMaxScore
			}
			assert.GreaterOrEqual(t, score, 1.0, "%s at %d", group.Dimension, v)
			assert.LessOrEqual(t, score, hi, "%s at %d", group.Dimension, v)
		}
	}
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		people, production float64
		want               Style
	}{
		{1, 1, StyleImpoverished},
		{3, 3, StyleImpoverished},
		{7, 1, StyleCountryClub},
		{1, 7, StyleAuthorityCompliance},
		{4.5, 4.5, StyleMiddleOfTheRoad},
		{4, 5, StyleMiddleOfTheRoad},
		{6, 6, StyleTeamLeader},
		{5.5, 6, StyleTaskManager},
		{3.5, 5, StyleTaskManager},
		{6, 4, StyleCustom},
		{3.5, 3.5, StyleCustom},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.people, tt.production), "people=%v production=%v", tt.people, tt.production)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for p := 1.0; p <= 7.0; p += 0.25 {
		for q := 1.0; q <= 7.0; q += 0.25 {
			_, ok := ParseStyle(string(Classify(p, q)))
			assert.True(t, ok)
		}
	}
}

func TestAssessRisk(t *testing.T) {
	high := Dimensions{Machiavellianism: 5, Narcissism: 5, Psychopathy: 5, LMX: 1, Care: 1}
	assert.Equal(t, RiskHigh, AssessRisk(high))

	medium := Dimensions{Machiavellianism: 3.5, Narcissism: 3.5, Psychopathy: 3.5, LMX: 2, Care: 2}
	assert.Equal(t, RiskMedium, AssessRisk(medium))

	mitigated := Dimensions{Machiavellianism: 2.5, Narcissism: 2.5, Psychopathy: 2.5, LMX: 7, Care: 7}
	assert.Equal(t, RiskLow, AssessRisk(mitigated))

	assert.Less(t, RiskLow.Rank(), RiskMedium.Rank())
	assert.Less(t, RiskMedium.Rank(), RiskHigh.Rank())
}

func TestDerivedMeans(t *testing.T) {
	d := Dimensions{Care: 6, Challenge: 3, Machiavellianism: 1, Narcissism: 2, Psychopathy: 4}
	assert.Equal(t, 4.5, d.Candor())
	assert.Equal(t, 2.33, d.Influence())
}
