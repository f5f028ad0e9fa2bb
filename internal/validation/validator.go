// Package validation checks the integrity of survey submissions: required
// fields, completeness against the canonical item set, answer consistency,
// pattern outliers, completion time and duplicate submissions.
package validation

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

// SubmissionLookup finds a respondent's recent submissions.
type SubmissionLookup interface {
	FindRecentSubmissions(ctx context.Context, identity string, since time.Time) ([]survey.Summary, error)
}

// Recorder receives validation metrics.
type Recorder interface {
	RecordValidation(ctx context.Context, valid bool, warnings int)
	RecordAnomaly(ctx context.Context, tag, severity string)
}

// Options controls a single validation run.
type Options struct {
	CheckDuplicates bool
	Language        string
}

// Config tunes the validator.
type Config struct {
	DuplicateWindow  time.Duration
	LookupTimeout    time.Duration
	BatchConcurrency int
	FastCompletion   time.Duration
	SlowCompletion   time.Duration
	FrequencyLimit   int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		DuplicateWindow:  24 * time.Hour,
		LookupTimeout:    3 * time.Second,
		BatchConcurrency: 8,
		FastCompletion:   60 * time.Second,
		SlowCompletion:   1800 * time.Second,
		FrequencyLimit:   3,
	}
}

const (
	minNameLength        = 2
	maxNameLength        = 100
	highVarianceStd      = 2.5
	varianceStep         = 0.1
	minConsistency       = 0.5
	identicalConsistency = 0.1
	neutralRating        = 4.0
)

// Validator runs the validation pipeline.
type Validator struct {
	cfg      Config
	lookup   SubmissionLookup
	catalog  *i18n.Catalog
	recorder Recorder
	logger   logging.Logger
	now      func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithLookup enables duplicate detection against lookup.
func WithLookup(lookup SubmissionLookup) Option {
	return func(v *Validator) { v.lookup = lookup }
}

// WithRecorder wires metrics.
func WithRecorder(recorder Recorder) Option {
	return func(v *Validator) { v.recorder = recorder }
}

// WithLogger overrides the component logger.
func WithLogger(logger logging.Logger) Option {
	return func(v *Validator) { v.logger = logging.OrNop(logger) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New builds a Validator.
func New(cfg Config, catalog *i18n.Catalog, opts ...Option) *Validator {
	defaults := DefaultConfig()
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = defaults.DuplicateWindow
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaults.LookupTimeout
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = defaults.BatchConcurrency
	}
	if cfg.FastCompletion <= 0 {
		cfg.FastCompletion = defaults.FastCompletion
	}
	if cfg.SlowCompletion <= 0 {
		cfg.SlowCompletion = defaults.SlowCompletion
	}
	if cfg.FrequencyLimit <= 0 {
		cfg.FrequencyLimit = defaults.FrequencyLimit
	}
	if catalog == nil {
		catalog = i18n.NewCatalog(i18n.English)
	}
	v := &Validator{
		cfg:     cfg,
		catalog: catalog,
		logger:  logging.NewComponentLogger("validation"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every step in order and renders messages in opts.Language.
// Warnings never short-circuit; hard errors only flip IsValid.
func (v *Validator) Validate(ctx context.Context, sub survey.Submission, opts Options) Result {
	res := newResult()
	raw := sub.RawResponses()

	v.checkBasicFields(res, sub)
	v.checkCompleteness(res, raw)
	v.checkConsistency(res, raw)
	v.checkPatterns(res, raw)
	v.checkCompletionTime(res, sub)
	if opts.CheckDuplicates {
		v.checkDuplicates(ctx, res, sub)
	}

	lang := opts.Language
	if lang == "" {
		lang = v.catalog.Default()
	}
	res.Render(v.catalog, lang)

	if v.recorder != nil {
		v.recorder.RecordValidation(ctx, res.IsValid, len(res.Warnings))
		for _, rec := range res.records {
			v.recorder.RecordAnomaly(ctx, rec.Dimension, string(rec.Severity))
		}
	}
	return *res
}

func (v *Validator) checkBasicFields(res *Result, sub survey.Submission) {
	if !strings.Contains(strings.TrimSpace(sub.Email), "@") {
		res.addError(i18n.M(i18n.KeyEmailInvalid))
	}
	n := utf8.RuneCountInString(strings.TrimSpace(sub.Name))
	if n < minNameLength || n > maxNameLength {
		res.addError(i18n.M(i18n.KeyNameLength))
	}
}

func (v *Validator) checkCompleteness(res *Result, raw map[string]int) {
	counts := make(map[scoring.Section]int, len(scoring.Sections))
	for _, group := range scoring.Items {
		for _, item := range group.Items {
			value, ok := raw[item]
			if !ok {
				continue
			}
			section, _ := scoring.SectionOf(item)
			counts[section]++
			if value < scoring.MinRating || value > scoring.MaxRating {
				res.addError(i18n.M(i18n.KeyValueRange, item, value))
			}
		}
	}
	var unknown []string
	for item := range raw {
		if _, known := scoring.DimensionOf(item); !known {
			unknown = append(unknown, item)
		}
	}
	sort.Strings(unknown)
	for _, item := range unknown {
		res.addWarning(i18n.M(i18n.KeyUnknownItem, item))
	}

	expected := scoring.ExpectedItems()
	present := 0
	for _, section := range scoring.Sections {
		got := counts[section]
		if got > 0 {
			present++
		}
		if want := expected[section]; got != want {
			res.addError(i18n.M(i18n.KeyCountMismatch, string(section), want, got))
		}
	}
	res.CompletenessScore = float64(present) / float64(len(scoring.Sections))
}

func (v *Validator) checkConsistency(res *Result, raw map[string]int) {
	bySection := make(map[scoring.Section][]float64)
	for item, value := range raw {
		if section, ok := scoring.SectionOf(item); ok {
			bySection[section] = append(bySection[section], float64(value))
		}
	}

	highVariance := 0
	for _, section := range scoring.Sections {
		values := bySection[section]
		if len(values) < 2 {
			continue
		}
		if std := anomaly.StdDev(values); std > highVarianceStd {
			highVariance++
			res.addWarning(i18n.M(i18n.KeyHighVariance, string(section), std))
		}
	}
	if highVariance > 0 {
		res.ConsistencyScore = max(minConsistency, 1-varianceStep*float64(highVariance))
	}

	if allIdentical(raw) {
		res.addError(i18n.M(i18n.KeyIdenticalValues))
		res.ConsistencyScore = identicalConsistency
	}
}

func allIdentical(raw map[string]int) bool {
	if len(raw) == 0 {
		return false
	}
	first, seen := 0, false
	for _, value := range raw {
		if !seen {
			first, seen = value, true
			continue
		}
		if value != first {
			return false
		}
	}
	return true
}

// checkPatterns compares the means of the answered items per section. A
// section with no answers counts as the neutral rating.
func (v *Validator) checkPatterns(res *Result, raw map[string]int) {
	if len(raw) == 0 {
		return
	}
	sums := make(map[scoring.Section]float64)
	counts := make(map[scoring.Section]int)
	for item, value := range raw {
		if section, ok := scoring.SectionOf(item); ok {
			sums[section] += float64(value)
			counts[section]++
		}
	}
	mean := func(section scoring.Section) float64 {
		if counts[section] == 0 {
			return neutralRating
		}
		return sums[section] / float64(counts[section])
	}
	for _, rec := range anomaly.DetectPatterns(
		mean(scoring.SectionPeople), mean(scoring.SectionProduction),
		mean(scoring.SectionCandor), mean(scoring.SectionLMX),
	) {
		res.addOutlier(rec)
	}
}

func (v *Validator) checkCompletionTime(res *Result, sub survey.Submission) {
	if sub.CompletionSeconds == nil {
		return
	}
	secs := *sub.CompletionSeconds
	elapsed := time.Duration(secs) * time.Second
	switch {
	case elapsed < v.cfg.FastCompletion:
		res.addWarning(i18n.M(i18n.KeyCompletionFast, secs))
	case elapsed > v.cfg.SlowCompletion:
		res.addWarning(i18n.M(i18n.KeyCompletionSlow, secs))
	}
}

// checkDuplicates is best-effort: a failed or slow lookup becomes a warning.
func (v *Validator) checkDuplicates(ctx context.Context, res *Result, sub survey.Submission) {
	if v.lookup == nil {
		v.logger.Debug("duplicate check requested without a submission lookup")
		return
	}
	lookupCtx, cancel := context.WithTimeout(ctx, v.cfg.LookupTimeout)
	defer cancel()

	since := v.now().Add(-v.cfg.DuplicateWindow)
	recent, err := v.lookup.FindRecentSubmissions(lookupCtx, sub.Identity(), since)
	if err != nil {
		logging.FromContext(ctx, v.logger).Warn("duplicate lookup failed: %v", err)
		res.addWarning(i18n.M(i18n.KeyDuplicateUnavailable))
		return
	}

	hash := sub.ContentHash()
	for _, prior := range recent {
		if prior.ContentHash == hash {
			res.addError(i18n.M(i18n.KeyDuplicate, prior.CreatedAt.UTC().Format(time.RFC3339)))
			return
		}
	}
	if len(recent) >= v.cfg.FrequencyLimit {
		res.addWarning(i18n.M(i18n.KeyTooFrequent, len(recent)))
	}
}
