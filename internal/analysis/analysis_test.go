package analysis

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

type stubGenerator struct {
	result GenerationResult
	block  bool
	panics bool
	calls  int
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, _ NarrativeRequest) GenerationResult {
	g.calls++
	if g.panics {
		panic("boom")
	}
	if g.block {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
	}
	return g.result
}

func uniform(value int) map[string]int {
	raw := map[string]int{}
	for _, group := range scoring.Items {
		for _, item := range group.Items {
			raw[item] = value
		}
	}
	return raw
}

func fixedClock() (func() time.Time, func() string) {
	n := 0
	return func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
		func() string {
			n++
			return "ana-" + string(rune('a'+n))
		}
}

func newTestComposer(gen NarrativeGenerator, opts ...ComposerOption) *Composer {
	now, newID := fixedClock()
	base := []ComposerOption{WithComposerClock(now, newID), WithComposerLogger(logging.Nop())}
	return NewComposer(gen, i18n.NewCatalog(i18n.English), append(base, opts...)...)
}

func TestComposeEmptyResponsesIsTransient(t *testing.T) {
	c := newTestComposer(nil)
	_, err := c.Compose(context.Background(), "u1", map[string]int{}, OrgContext{})
	require.Error(t, err)
	assert.True(t, lerrors.IsTransient(err))
	assert.ErrorIs(t, err, ErrEmptyResponses)
}

func TestComposeWithoutGeneratorUsesRules(t *testing.T) {
	c := newTestComposer(nil)
	rec, err := c.Compose(context.Background(), "u1", uniform(7), OrgContext{Organization: "acme"})
	require.NoError(t, err)

	assert.Equal(t, scoring.StyleTeamLeader, rec.Style)
	assert.Equal(t, ProviderRuleBased, rec.Insights.Provider)
	assert.True(t, rec.Insights.RuleBased())
	assert.Equal(t, "acme", rec.Organization)
	assert.Contains(t, rec.Insights.Strengths, "Excellent at building relationships with team members")
	assert.Contains(t, rec.Insights.Strengths, "Radical Candor: gives sincere, direct feedback")
	assert.Empty(t, rec.Insights.Weaknesses)
	assert.Len(t, rec.Insights.DevelopmentPlan, 3)
	assert.Equal(t, "Ideal leadership valuing both people and results", rec.Insights.StyleDescription)
}

func TestComposeUsesGeneratedNarrative(t *testing.T) {
	gen := &stubGenerator{result: Generated(Narrative{
		Strengths:        []string{"s1", "s2"},
		Improvements:     []string{"i1"},
		ActionPlans:      []string{"a1", "a2"},
		ExpectedOutcomes: "better",
		Provider:         "openai",
		Model:            "gpt-4o-mini",
	})}
	c := newTestComposer(gen)

	rec, err := c.Compose(context.Background(), "u1", uniform(4), OrgContext{})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "openai", rec.Insights.Provider)
	assert.Equal(t, "gpt-4o-mini", rec.Insights.Model)
	assert.Equal(t, []string{"i1"}, rec.Insights.Weaknesses)
	assert.Equal(t, []string{"i1"}, rec.Insights.Improvements)
	assert.Equal(t, []string{"a1", "a2"}, rec.Insights.DevelopmentPlan)
	assert.Equal(t, "better", rec.Insights.Summary)
	assert.NotEmpty(t, rec.Insights.StyleDescription)
}

func TestComposeFallsBackOnFailure(t *testing.T) {
	gen := &stubGenerator{result: Failed(errors.New("provider down"))}
	rec, err := newTestComposer(gen).Compose(context.Background(), "u1", uniform(4), OrgContext{})
	require.NoError(t, err)
	assert.Equal(t, ProviderRuleBased, rec.Insights.Provider)
}

func TestComposeFallsBackOnTimeout(t *testing.T) {
	gen := &stubGenerator{block: true}
	c := newTestComposer(gen, WithInsightTimeout(20*time.Millisecond))

	started := time.Now()
	rec, err := c.Compose(context.Background(), "u1", uniform(4), OrgContext{})
	require.NoError(t, err)
	assert.Equal(t, ProviderRuleBased, rec.Insights.Provider)
	assert.Less(t, time.Since(started), time.Second)
}

func TestComposeFallsBackOnPanic(t *testing.T) {
	gen := &stubGenerator{panics: true}
	rec, err := newTestComposer(gen).Compose(context.Background(), "u1", uniform(4), OrgContext{})
	require.NoError(t, err)
	assert.Equal(t, ProviderRuleBased, rec.Insights.Provider)
}

func TestFailedWithNilErrorIsStillFailure(t *testing.T) {
	res := Failed(nil)
	assert.False(t, res.OK())
	assert.Error(t, res.Err())
	assert.True(t, Generated(Narrative{}).OK())
}

func TestRuleBasedInsights(t *testing.T) {
	rules := NewRuleBased(i18n.NewCatalog(i18n.English))

	tests := []struct {
		name         string
		dims         scoring.Dimensions
		style        scoring.Style
		weaknesses   []string
		improvements []string
		planLen      int
	}{
		{
			name:         "ruinous empathy",
			dims:         scoring.Dimensions{People: 5, Production: 5, Care: 6.5, Challenge: 2, LMX: 5},
			style:        scoring.StyleMiddleOfTheRoad,
			weaknesses:   []string{"Ruinous Empathy: hesitates to give necessary feedback"},
			improvements: []string{"Practice giving constructive criticism"},
			planLen:      0,
		},
		{
			name:         "obnoxious aggression",
			dims:         scoring.Dimensions{People: 5, Production: 5, Care: 2, Challenge: 6.5, LMX: 5},
			style:        scoring.StyleMiddleOfTheRoad,
			weaknesses:   []string{"Obnoxious Aggression: feedback comes across as aggressive"},
			improvements: []string{"Communicate with empathy and care"},
			planLen:      0,
		},
		{
			name:  "impoverished caps plan at five",
			dims:  scoring.Dimensions{People: 2, Production: 2, Care: 4, Challenge: 4, LMX: 2},
			style: scoring.StyleImpoverished,
			weaknesses: []string{
				"Relationships with team members need improvement",
				"Performance management needs strengthening",
				"Trust with team members needs to be built",
			},
			improvements: []string{
				"Deepen understanding of team members through 1:1 meetings",
				"Set clear goals and monitor progress",
				"Act consistently and keep commitments",
			},
			planLen: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Insights(NarrativeRequest{Dimensions: tt.dims, Style: tt.style})
			assert.Equal(t, tt.weaknesses, got.Weaknesses)
			assert.Equal(t, tt.improvements, got.Improvements)
			assert.Len(t, got.DevelopmentPlan, tt.planLen)
			assert.NotNil(t, got.Strengths)
		})
	}
}

func TestRuleBasedLocalizes(t *testing.T) {
	rules := NewRuleBased(i18n.NewCatalog(i18n.English))
	got := rules.Insights(NarrativeRequest{
		Dimensions: scoring.Dimensions{People: 6.5, Production: 4, Care: 4, Challenge: 4, LMX: 4},
		Style:      scoring.StyleCustom,
		Org:        OrgContext{Language: "ko-KR"},
	})
	assert.Equal(t, []string{"팀원들과의 관계 구축 능력이 뛰어남"}, got.Strengths)
	assert.Equal(t, "독특한 패턴의 개성적 리더십", got.StyleDescription)
}

func TestQuickView(t *testing.T) {
	rec := Record{
		Style:      scoring.StyleCustom,
		Risk:       scoring.RiskMedium,
		Dimensions: scoring.Dimensions{People: 5, Production: 6, Care: 4, Challenge: 6, LMX: 5, Machiavellianism: 3, Narcissism: 2, Psychopathy: 1},
		Insights: Insights{
			Strengths:    []string{"a", "b", "c", "d"},
			Improvements: []string{"x"},
		},
	}
	q := Quick(rec)
	assert.Equal(t, []string{"a", "b", "c"}, q.KeyStrengths)
	assert.Equal(t, []string{"x"}, q.ActionItems)
	assert.InDelta(t, 5.0, q.VisualizationData["candor"], 1e-9)
	assert.InDelta(t, 2.0, q.VisualizationData["influence"], 1e-9)
}

func TestCards(t *testing.T) {
	catalog := i18n.NewCatalog(i18n.English)
	rec := Record{Insights: Insights{
		Strengths:        []string{"a", "b", "c"},
		Improvements:     []string{"x", "y"},
		StyleDescription: "desc",
	}}
	cards := Cards(rec, catalog, i18n.English)
	require.Len(t, cards, 3)
	assert.Equal(t, "strengths", cards[0].Category)
	assert.Equal(t, "Your main strengths: a, b", cards[0].Description)
	assert.Equal(t, 0.85, cards[0].Confidence)
	assert.Equal(t, "Area to focus on: x", cards[1].Description)
	assert.Equal(t, 2, cards[1].Priority)
	assert.Equal(t, "desc", cards[2].Description)

	assert.Empty(t, Cards(Record{}, catalog, i18n.English))
}

func TestMovementsAndTemporal(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	at := func(d int, people, production float64) Record {
		return Record{CreatedAt: day(d), Dimensions: scoring.Dimensions{People: people, Production: production}}
	}
	// newest first, as stores return it
	history := []Record{at(4, 4, 4), at(3, 6, 6), at(2, 3, 4), at(1, 6, 6)}

	movements := Movements(history)
	require.Len(t, movements, 3)
	assert.Equal(t, 1, movements[0].DaysBetween)
	assert.InDelta(t, -3.0, movements[0].PeopleDelta, 1e-9)

	report := Temporal("u1", history)
	assert.Equal(t, 4, report.Analyses)
	tags := map[string]bool{}
	for _, r := range report.Anomalies {
		tags[r.Dimension] = true
	}
	assert.True(t, tags["rapid_change"])
	assert.True(t, tags["yoyo_pattern"])
	assert.Greater(t, report.Score, 0.0)

	empty := Temporal("u2", nil)
	assert.Empty(t, empty.Movements)
	assert.Empty(t, empty.Anomalies)
}

type memRepo struct {
	mu          sync.Mutex
	submissions map[string]survey.Record
	analyses    []Record
	saveErr     error
}

func newMemRepo() *memRepo {
	return &memRepo{submissions: map[string]survey.Record{}}
}

func (m *memRepo) LatestSubmission(_ context.Context, subjectID string) (survey.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.submissions[subjectID]
	if !ok {
		return survey.Record{}, errors.New("not found")
	}
	return rec, nil
}

func (m *memRepo) SaveAnalysis(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.analyses = append(m.analyses, rec)
	return nil
}

func (m *memRepo) LatestAnalysis(ctx context.Context, subjectID string) (Record, error) {
	history, _ := m.AnalysisHistory(ctx, subjectID, 1)
	if len(history) == 0 {
		return Record{}, errors.New("not found")
	}
	return history[0], nil
}

func (m *memRepo) AnalysisHistory(_ context.Context, subjectID string, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.analyses {
		if rec.SubjectID == subjectID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.analyses)
}

type observerFunc func(ctx context.Context, rec Record)

func (f observerFunc) AnalysisCompleted(ctx context.Context, rec Record) { f(ctx, rec) }

func TestServiceTriggerRunsInBackground(t *testing.T) {
	repo := newMemRepo()
	repo.submissions["u1"] = survey.Record{SubjectID: "u1", Organization: "acme", Responses: uniform(7)}

	seen := make(chan Record, 1)
	svc := NewService(newTestComposer(nil), repo, ServiceConfig{Workers: 1, QueueSize: 4},
		WithServiceLogger(logging.Nop()),
		WithObserver(observerFunc(func(_ context.Context, rec Record) { seen <- rec })))
	svc.Start()
	defer func() { _ = svc.Stop(context.Background()) }()

	require.NoError(t, svc.Trigger(context.Background(), "u1", OrgContext{}))

	select {
	case rec := <-seen:
		assert.Equal(t, "u1", rec.SubjectID)
		assert.Equal(t, "acme", rec.Organization)
	case <-time.After(2 * time.Second):
		t.Fatal("analysis was not completed")
	}

	latest, err := svc.Latest(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, scoring.StyleTeamLeader, latest.Style)

	quick, err := svc.Quick(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, scoring.StyleTeamLeader, quick.Style)
}

func TestServiceTriggerWithoutSubmission(t *testing.T) {
	svc := NewService(newTestComposer(nil), newMemRepo(), ServiceConfig{}, WithServiceLogger(logging.Nop()))
	require.Error(t, svc.Trigger(context.Background(), "ghost", OrgContext{}))
}

func TestServiceQueueFullAndStopped(t *testing.T) {
	svc := NewService(newTestComposer(nil), newMemRepo(), ServiceConfig{Workers: 1, QueueSize: 1}, WithServiceLogger(logging.Nop()))
	// workers not started: the single slot fills up
	require.NoError(t, svc.Enqueue(Job{SubjectID: "a", Responses: uniform(4)}))
	assert.ErrorIs(t, svc.Enqueue(Job{SubjectID: "b", Responses: uniform(4)}), ErrQueueFull)

	svc.Start()
	require.NoError(t, svc.Stop(context.Background()))
	assert.ErrorIs(t, svc.Enqueue(Job{SubjectID: "c"}), ErrServiceStopped)
}

func TestServiceAnalyzeSaveError(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("disk full")
	svc := NewService(newTestComposer(nil), repo, ServiceConfig{}, WithServiceLogger(logging.Nop()))

	_, err := svc.Analyze(context.Background(), Job{SubjectID: "u1", Responses: uniform(4)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, repo.count())
}
