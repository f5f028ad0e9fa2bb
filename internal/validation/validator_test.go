package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func completeSubmission(email string) survey.Submission {
	secs := 600
	sub := survey.Submission{Name: "Kim Lead", Email: email, CompletionSeconds: &secs}
	for _, group := range scoring.Items {
		for i, item := range group.Items {
			sub.Responses = append(sub.Responses, survey.ItemResponse{QuestionID: item, Value: 3 + i%3})
		}
	}
	return sub
}

func withValue(sub survey.Submission, value func(item string) int) survey.Submission {
	out := sub
	out.Responses = make([]survey.ItemResponse, len(sub.Responses))
	for i, r := range sub.Responses {
		out.Responses[i] = survey.ItemResponse{QuestionID: r.QuestionID, Value: value(r.QuestionID)}
	}
	return out
}

type fakeLookup struct {
	summaries []survey.Summary
	err       error
	block     bool
	calls     atomic.Int32
}

func (f *fakeLookup) FindRecentSubmissions(ctx context.Context, identity string, since time.Time) ([]survey.Summary, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.summaries, f.err
}

type recordingRecorder struct {
	mu        sync.Mutex
	outcomes  []bool
	anomalies []string
}

func (r *recordingRecorder) RecordValidation(_ context.Context, valid bool, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, valid)
}

func (r *recordingRecorder) RecordAnomaly(_ context.Context, tag, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anomalies = append(r.anomalies, tag)
}

func newValidator(opts ...Option) *Validator {
	opts = append([]Option{WithLogger(logging.Nop()), WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(Config{LookupTimeout: 20 * time.Millisecond}, i18n.NewCatalog(i18n.English), opts...)
}

func TestValidateCompleteSubmission(t *testing.T) {
	res := newValidator().Validate(context.Background(), completeSubmission("kim@example.com"), Options{})

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.NotNil(t, res.Outliers)
	assert.Equal(t, 1.0, res.CompletenessScore)
	assert.Equal(t, 1.0, res.ConsistencyScore)
}

func TestValidateBasicFields(t *testing.T) {
	sub := completeSubmission("not-an-email")
	sub.Name = " K "

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"Invalid email format!", "Name must be between 2 and 100 characters"}, res.Errors)
}

func TestValidateMissingSection(t *testing.T) {
	sub := completeSubmission("kim@example.com")
	var kept []survey.ItemResponse
	for _, r := range sub.Responses {
		if dim, _ := scoring.DimensionOf(r.QuestionID); dim != scoring.LMX {
			kept = append(kept, r)
		}
	}
	sub.Responses = kept

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"Response count mismatch for lmx: expected 10, got 0"}, res.Errors)
	assert.InDelta(t, 0.8, res.CompletenessScore, 1e-9)
}

func TestValidateValueRangeAndUnknownItems(t *testing.T) {
	sub := completeSubmission("kim@example.com")
	sub.Responses[0].Value = 9
	sub.Responses = append(sub.Responses, survey.ItemResponse{QuestionID: "bonus_1", Value: 4})

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "Response values must be between 1-7! (bm_1=9)")
	assert.Contains(t, res.Warnings, "Unknown question id ignored: bonus_1")
}

func TestValidateIdenticalValues(t *testing.T) {
	sub := withValue(completeSubmission("kim@example.com"), func(string) int { return 5 })

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"All responses have the same value! This doesn't seem like a sincere response."}, res.Errors)
	assert.Equal(t, 0.1, res.ConsistencyScore)
}

func TestValidateHighVarianceIsWarningOnly(t *testing.T) {
	toggle := 0
	sub := withValue(completeSubmission("kim@example.com"), func(item string) int {
		if dim, _ := scoring.DimensionOf(item); dim == scoring.People {
			toggle++
			if toggle%2 == 0 {
				return 7
			}
			return 1
		}
		return 4 + toggle%2
	})

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "High response variance in people")
	assert.InDelta(t, 0.9, res.ConsistencyScore, 1e-9)
}

func TestValidatePatternOutliers(t *testing.T) {
	rec := &recordingRecorder{}
	sub := withValue(completeSubmission("kim@example.com"), func(item string) int {
		if dim, _ := scoring.DimensionOf(item); dim == scoring.Machiavellianism || dim == scoring.Narcissism || dim == scoring.Psychopathy {
			return 1
		}
		return 7
	})

	res := newValidator(WithRecorder(rec)).Validate(context.Background(), sub, Options{})
	assert.True(t, res.IsValid)
	require.Len(t, res.Outliers, 1)
	assert.Equal(t, "all_high", res.Outliers[0].Dimension)
	assert.Equal(t, "All dimensions are unrealistically high", res.Outliers[0].Reason)
	assert.Equal(t, []string{"Unusual response pattern: All dimensions are unrealistically high"}, res.Warnings)
	assert.Equal(t, []bool{true}, rec.outcomes)
	assert.Equal(t, []string{"all_high"}, rec.anomalies)
}

func TestValidatePatternsUseAnsweredMeans(t *testing.T) {
	sub := survey.Submission{Name: "Kim Lead", Email: "kim@example.com"}
	for _, item := range scoring.Items[0].Items {
		sub.Responses = append(sub.Responses, survey.ItemResponse{QuestionID: item, Value: 7})
	}
	sub.Responses = append(sub.Responses, survey.ItemResponse{QuestionID: "bm_2", Value: 1})
	require.Equal(t, scoring.People, scoring.Items[0].Dimension)

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)

	var tags []string
	for _, o := range res.Outliers {
		tags = append(tags, o.Dimension)
	}
	require.Contains(t, tags, "people_vs_production")
	for _, o := range res.Outliers {
		if o.Dimension == "people_vs_production" {
			assert.InDelta(t, 6.0, o.Score, 1e-9)
			assert.Equal(t, "high", string(o.Severity))
		}
	}
}

func TestValidateSingleAnswerCountsAsIdentical(t *testing.T) {
	sub := survey.Submission{Name: "Kim Lead", Email: "kim@example.com",
		Responses: []survey.ItemResponse{{QuestionID: "bm_1", Value: 5}}}

	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "All responses have the same value! This doesn't seem like a sincere response.")
	assert.Equal(t, 0.1, res.ConsistencyScore)
}

func TestValidateCompletionTime(t *testing.T) {
	v := newValidator()
	fast, slow := 30, 2400

	sub := completeSubmission("kim@example.com")
	sub.CompletionSeconds = &fast
	res := v.Validate(context.Background(), sub, Options{})
	assert.True(t, res.IsValid)
	assert.Equal(t, []string{"Very fast completion time (30 seconds)"}, res.Warnings)

	sub.CompletionSeconds = &slow
	res = v.Validate(context.Background(), sub, Options{Language: i18n.Korean})
	assert.Equal(t, []string{"매우 느린 완료 시간 (2400초)"}, res.Warnings)
}

func TestValidateDuplicateHash(t *testing.T) {
	sub := completeSubmission("kim@example.com")
	prior := fixedNow.Add(-2 * time.Hour)
	lookup := &fakeLookup{summaries: []survey.Summary{{ID: "sub-1", CreatedAt: prior, ContentHash: sub.ContentHash()}}}

	res := newValidator(WithLookup(lookup)).Validate(context.Background(), sub, Options{CheckDuplicates: true})
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], prior.Format(time.RFC3339))
}

func TestValidateFrequencyWarning(t *testing.T) {
	lookup := &fakeLookup{}
	for i := 0; i < 3; i++ {
		lookup.summaries = append(lookup.summaries, survey.Summary{ID: fmt.Sprint(i), CreatedAt: fixedNow, ContentHash: fmt.Sprint("other-", i)})
	}

	res := newValidator(WithLookup(lookup)).Validate(context.Background(), completeSubmission("kim@example.com"), Options{CheckDuplicates: true})
	assert.True(t, res.IsValid)
	assert.Equal(t, []string{"Too frequent responses: 3 submissions in the last 24 hours."}, res.Warnings)
}

func TestValidateDuplicateLookupDegrades(t *testing.T) {
	for name, lookup := range map[string]*fakeLookup{
		"error":   {err: errors.New("db down")},
		"timeout": {block: true},
	} {
		t.Run(name, func(t *testing.T) {
			res := newValidator(WithLookup(lookup)).Validate(context.Background(), completeSubmission("kim@example.com"), Options{CheckDuplicates: true})
			assert.True(t, res.IsValid)
			assert.Equal(t, []string{"Duplicate check could not be completed; recent submissions were not compared."}, res.Warnings)
		})
	}
}

func TestValidateSkipsDuplicatesUnlessRequested(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("should not be called")}
	res := newValidator(WithLookup(lookup)).Validate(context.Background(), completeSubmission("kim@example.com"), Options{})
	assert.True(t, res.IsValid)
	assert.Zero(t, lookup.calls.Load())
}

func TestValidityIsMonotonic(t *testing.T) {
	sub := completeSubmission("broken")
	res := newValidator().Validate(context.Background(), sub, Options{})
	assert.False(t, res.IsValid)
	// Later steps passing cleanly must not restore validity.
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, 1.0, res.CompletenessScore)
}

func TestValidateBatchKeepsInputOrder(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("unused")}
	v := newValidator(WithLookup(lookup))

	subs := make([]survey.Submission, 0, 12)
	for i := 0; i < 12; i++ {
		email := fmt.Sprintf("lead%d@example.com", i)
		if i%4 == 0 {
			email = "invalid"
		}
		subs = append(subs, completeSubmission(email))
	}

	batch := v.ValidateBatch(context.Background(), subs, Options{CheckDuplicates: true})
	assert.Equal(t, 12, batch.Total)
	assert.Equal(t, 9, batch.Valid)
	assert.Equal(t, 3, batch.Invalid)
	assert.Zero(t, batch.Errors)
	assert.InDelta(t, 0.75, batch.SuccessRate, 1e-9)
	assert.Zero(t, lookup.calls.Load())
	for i, item := range batch.Results {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, subs[i].Email, item.Email)
	}
	assert.Equal(t, StatusInvalid, batch.Results[0].Status)
	assert.Equal(t, StatusValid, batch.Results[1].Status)
}

func TestValidateBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := newValidator().ValidateBatch(ctx, []survey.Submission{completeSubmission("a@b.c"), completeSubmission("d@e.f")}, Options{})
	assert.Equal(t, 2, batch.Errors)
	assert.Equal(t, StatusError, batch.Results[1].Status)
	assert.NotEmpty(t, batch.Results[1].Error)
}

func TestNewBatchReport(t *testing.T) {
	subs := []survey.Submission{completeSubmission("a@b.c"), completeSubmission("bad")}
	batch := newValidator().ValidateBatch(context.Background(), subs, Options{})

	report := NewBatchReport("rep-1", "owner", subs, batch, fixedNow)
	assert.Equal(t, "rep-1", report.ReportID)
	assert.Equal(t, BatchSummary{Total: 2, Valid: 1, Invalid: 1, SuccessRate: 0.5}, report.Summary)
	assert.Len(t, report.DimensionStats.People, 1)
	assert.Len(t, report.DimensionStats.LMX, 1)
}
