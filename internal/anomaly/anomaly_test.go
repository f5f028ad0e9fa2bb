package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/i18n"
)

func tags(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Dimension)
	}
	return out
}

func TestDetectStatisticalNeedsThreeValues(t *testing.T) {
	assert.Empty(t, DetectStatistical([]float64{1, 100}, MethodZScore))
	assert.Empty(t, DetectStatistical([]float64{1, 2, 3}, "unknown"))
}

func TestDetectStatisticalZScore(t *testing.T) {
	values := []float64{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 20}
	assert.Equal(t, []int{10}, DetectStatistical(values, MethodZScore))
	assert.Empty(t, DetectStatistical([]float64{3, 3, 3}, MethodZScore))
}

func TestDetectStatisticalIQR(t *testing.T) {
	values := []float64{1, 2, 3, 4, 100}
	// q1=2, q3=4, iqr=2 -> bounds [-1, 7]
	assert.Equal(t, []int{4}, DetectStatistical(values, MethodIQR))
}

func TestDetectStatisticalIsolation(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 1}
	assert.Equal(t, []int{12}, DetectStatistical(values, MethodIsolation))
}

func TestDetectPatternsAllHigh(t *testing.T) {
	records := DetectPatterns(7, 7, 7, 7)
	require.Len(t, records, 1)
	assert.Equal(t, TagAllHigh, records[0].Dimension)
	assert.Equal(t, SeverityMedium, records[0].Severity)
	assert.Equal(t, 7.0, records[0].Magnitude)
}

func TestDetectPatternsIndependentRules(t *testing.T) {
	records := DetectPatterns(1, 7, 6.5, 1)
	assert.Equal(t, []string{"people_vs_production", "candor_vs_lmx", TagProductionLMXMismatch, TagCandorLMXConflict}, tags(records))
	assert.Equal(t, SeverityHigh, records[0].Severity)
	assert.Equal(t, 6.0, records[0].Magnitude)
	assert.Equal(t, 6.0, records[2].Magnitude)
	assert.Equal(t, 5.5, records[3].Magnitude)
}

func TestDetectPatternsAllLow(t *testing.T) {
	records := DetectPatterns(1, 1.2, 1, 1.4)
	require.Len(t, records, 1)
	assert.Equal(t, TagAllLow, records[0].Dimension)
}

func TestDetectPatternsQuiet(t *testing.T) {
	assert.Empty(t, DetectPatterns(4, 4, 4, 4))
}

func TestDetectTemporalRapidChange(t *testing.T) {
	records := DetectTemporal([]Movement{
		{PeopleDelta: 1, ProductionDelta: 1, Magnitude: 3, DaysBetween: 0},
		{PeopleDelta: 1, Magnitude: 1.2, DaysBetween: 2},
		{PeopleDelta: 1, Magnitude: 1, DaysBetween: 10},
	})
	require.Len(t, records, 2)
	assert.Equal(t, SeverityHigh, records[0].Severity)
	assert.Equal(t, 3.0, records[0].Magnitude)
	assert.Equal(t, SeverityMedium, records[1].Severity)
	assert.InDelta(t, 0.6, records[1].Magnitude, 1e-9)
}

func TestDetectTemporalYoyo(t *testing.T) {
	flipping := []Movement{
		{PeopleDelta: 0.2, DaysBetween: 30},
		{PeopleDelta: -0.2, DaysBetween: 30},
		{ProductionDelta: 0.1, DaysBetween: 30},
		{ProductionDelta: -0.3, DaysBetween: 30},
	}
	records := DetectTemporal(flipping)
	require.Len(t, records, 1)
	assert.Equal(t, TagYoyoPattern, records[0].Dimension)
	assert.Equal(t, 0.75, records[0].Magnitude)

	// A single non-reversal is not a yo-yo.
	steady := append(flipping[:2:2], Movement{PeopleDelta: -0.1, DaysBetween: 30})
	assert.Empty(t, DetectTemporal(steady))

	// Zero net change counts as downward.
	assert.Len(t, DetectTemporal([]Movement{{PeopleDelta: 1}, {}, {PeopleDelta: 1}}), 1)
}

func TestScoreGrades(t *testing.T) {
	score, grade := Score(nil)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, GradeNormal, grade)

	score, grade = Score([]Record{{Magnitude: 7, Severity: SeverityMedium}})
	assert.InDelta(t, 42.0, score, 1e-9)
	assert.Equal(t, GradeWarning, grade)

	score, grade = Score([]Record{{Magnitude: 3, Severity: SeverityLow}})
	assert.InDelta(t, 9.0, score, 1e-9)
	assert.Equal(t, GradeNormal, grade)

	score, grade = Score([]Record{{Magnitude: 6, Severity: SeverityHigh}, {Magnitude: 6, Severity: SeverityHigh}})
	assert.Equal(t, 100.0, score)
	assert.Equal(t, GradeCritical, grade)

	score, _ = Score([]Record{{Magnitude: 5, Severity: "unknown"}})
	assert.InDelta(t, 25.0, score, 1e-9)
	assert.Equal(t, i18n.KeyGradeCaution, GradeCaution.MessageKey())
}

func TestRecommendationsCapped(t *testing.T) {
	records := []Record{
		{Dimension: "people_vs_production", Severity: SeverityHigh},
		{Dimension: TagAllHigh},
		{Dimension: TagCandorLMXConflict},
		{Dimension: TagAllHigh},
		{Dimension: TagRapidChange},
	}
	got := Recommendations(records)
	assert.Equal(t, []i18n.Message{
		i18n.M(i18n.KeyRecommendBalance),
		i18n.M(i18n.KeyRecommendHonesty),
		i18n.M(i18n.KeyRecommendCandorRelate),
	}, got)
}
