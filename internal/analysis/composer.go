package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taejunjeon/leadership/internal/async"
	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/utils/id"

	"go.opentelemetry.io/otel/attribute"
)

const defaultInsightTimeout = 30 * time.Second

// ErrEmptyResponses is returned, wrapped in a TransientError, when there is
// nothing to analyse.
var ErrEmptyResponses = errors.New("no responses to analyse")

// Composer runs Calculate, Classify, AssessRisk and narrative generation.
type Composer struct {
	generator NarrativeGenerator
	fallback  *RuleBased
	timeout   time.Duration
	tracer    *observability.TracerProvider
	logger    logging.Logger
	now       func() time.Time
	newID     func() string
}

// ComposerOption customises a Composer.
type ComposerOption func(*Composer)

// WithInsightTimeout bounds narrative generation.
func WithInsightTimeout(timeout time.Duration) ComposerOption {
	return func(c *Composer) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTracer enables composition spans.
func WithTracer(tracer *observability.TracerProvider) ComposerOption {
	return func(c *Composer) { c.tracer = tracer }
}

// WithComposerLogger overrides the component logger.
func WithComposerLogger(logger logging.Logger) ComposerOption {
	return func(c *Composer) { c.logger = logging.OrNop(logger) }
}

// WithComposerClock overrides time.Now and the id source, for tests.
func WithComposerClock(now func() time.Time, newID func() string) ComposerOption {
	return func(c *Composer) {
		if now != nil {
			c.now = now
		}
		if newID != nil {
			c.newID = newID
		}
	}
}

// NewComposer builds a Composer. A nil generator always selects the
// rule-based branch.
func NewComposer(generator NarrativeGenerator, catalog *i18n.Catalog, opts ...ComposerOption) *Composer {
	c := &Composer{
		generator: generator,
		fallback:  NewRuleBased(catalog),
		timeout:   defaultInsightTimeout,
		logger:    logging.NewComponentLogger("analysis.composer"),
		now:       time.Now,
		newID:     id.NewAnalysisID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Fallback exposes the rule-based generator for views that describe styles.
func (c *Composer) Fallback() *RuleBased { return c.fallback }

// Generator returns the configured narrative generator, possibly nil.
func (c *Composer) Generator() NarrativeGenerator { return c.generator }

// Compose builds a new Record for subjectID. It never returns a provider
// error: any generation failure degrades to rule-based insights.
func (c *Composer) Compose(ctx context.Context, subjectID string, raw map[string]int, org OrgContext) (rec Record, err error) {
	if len(raw) == 0 {
		return Record{}, lerrors.NewTransientError(ErrEmptyResponses, "analysis input is empty")
	}

	ctx, s := c.tracer.StartSpan(ctx, observability.SpanAnalysisCompose, observability.SubjectAttrs(subjectID)...)
	defer func() { observability.EndSpan(s, err) }()

	dims := scoring.Calculate(raw)
	style := scoring.Classify(dims.People, dims.Production)
	risk := scoring.AssessRisk(dims)

	req := NarrativeRequest{
		SubjectID:  subjectID,
		Dimensions: dims,
		Style:      style,
		Risk:       risk,
		Org:        org,
	}
	insights := c.insights(ctx, req)

	s.SetAttributes(
		attribute.String(observability.AttrStyle, string(style)),
		attribute.String(observability.AttrRisk, string(risk)),
		attribute.String(observability.AttrProvenance, insights.Provider),
	)

	return Record{
		ID:           c.newID(),
		SubjectID:    subjectID,
		Dimensions:   dims,
		Style:        style,
		Risk:         risk,
		Insights:     insights,
		Organization: org.Organization,
		Department:   org.Department,
		CreatedAt:    c.now().UTC(),
	}, nil
}

func (c *Composer) insights(ctx context.Context, req NarrativeRequest) Insights {
	if c.generator == nil {
		return c.fallback.Insights(req)
	}

	result := c.generate(ctx, req)
	if !result.OK() {
		c.logger.Warn("narrative generation via %s failed, using rule-based insights: %v", c.generator.Name(), result.Err())
		return c.fallback.Insights(req)
	}

	n := result.Narrative()
	lang := c.fallback.language(req.Org.Language)
	return Insights{
		Strengths:        nonNil(n.Strengths),
		Weaknesses:       nonNil(n.Improvements),
		Improvements:     nonNil(n.Improvements),
		StyleDescription: c.fallback.StyleDescription(req.Style, lang),
		DevelopmentPlan:  nonNil(n.ActionPlans),
		Summary:          n.ExpectedOutcomes,
		Provider:         orDefault(n.Provider, c.generator.Name()),
		Model:            n.Model,
	}
}

// generate runs the provider under the insight timeout. A provider that
// ignores ctx is abandoned, not waited for.
func (c *Composer) generate(ctx context.Context, req NarrativeRequest) GenerationResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan GenerationResult, 1)
	async.Go(c.logger, "analysis.generate", func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Failed(fmt.Errorf("narrative generator panic: %v", r))
				panic(r)
			}
		}()
		done <- c.generator.Generate(ctx, req)
	})

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return Failed(fmt.Errorf("narrative generation: %w", ctx.Err()))
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
