package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/kaptinlin/jsonrepair"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	id "github.com/taejunjeon/leadership/internal/utils/id"
)

const (
	maxStrengths    = 3
	maxImprovements = 3
	maxActionPlans  = 5
)

// Recorder receives provider call metrics.
type Recorder interface {
	RecordLLMRequest(ctx context.Context, provider, model, status string, latency time.Duration)
}

// NarrativeGenerator adapts a Client to analysis.NarrativeGenerator.
type NarrativeGenerator struct {
	client   Client
	recorder Recorder
	tracer   *observability.TracerProvider
	logger   logging.Logger
}

var _ analysis.NarrativeGenerator = (*NarrativeGenerator)(nil)

// GeneratorOption customises a NarrativeGenerator.
type GeneratorOption func(*NarrativeGenerator)

// WithRecorder wires provider metrics.
func WithRecorder(recorder Recorder) GeneratorOption {
	return func(g *NarrativeGenerator) { g.recorder = recorder }
}

// WithTracer enables provider spans.
func WithTracer(tracer *observability.TracerProvider) GeneratorOption {
	return func(g *NarrativeGenerator) { g.tracer = tracer }
}

// NewNarrativeGenerator wraps client.
func NewNarrativeGenerator(client Client, opts ...GeneratorOption) *NarrativeGenerator {
	g := &NarrativeGenerator{
		client: client,
		logger: logging.NewComponentLogger("llm.narrative"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Name returns the provider name.
func (g *NarrativeGenerator) Name() string { return g.client.Provider() }

// Generate prompts the provider and parses its answer.
func (g *NarrativeGenerator) Generate(ctx context.Context, req analysis.NarrativeRequest) analysis.GenerationResult {
	ctx = id.WithSubjectID(ctx, req.SubjectID)
	attrs := append(observability.LLMAttrs(g.client.Provider(), g.client.Model()), observability.SubjectAttrs(req.SubjectID)...)
	ctx, span := g.tracer.StartSpan(ctx, observability.SpanLLMGenerate, attrs...)

	started := time.Now()
	narrative, err := g.generate(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	if g.recorder != nil {
		g.recorder.RecordLLMRequest(ctx, g.client.Provider(), g.client.Model(), status, time.Since(started))
	}
	observability.EndSpan(span, err)

	if err != nil {
		return analysis.Failed(err)
	}
	return analysis.Generated(narrative)
}

func (g *NarrativeGenerator) generate(ctx context.Context, req analysis.NarrativeRequest) (analysis.Narrative, error) {
	resp, err := g.client.Complete(ctx, CompletionRequest{
		System:      systemPrompt(req.Org.Language),
		Prompt:      userPrompt(req),
		MaxTokens:   1000,
		Temperature: 0.7,
		JSONOutput:  true,
	})
	if err != nil {
		return analysis.Narrative{}, err
	}
	narrative, err := ParseNarrative(resp.Content)
	if err != nil {
		logging.FromContext(ctx, g.logger).Warn("%s returned unparseable narrative: %v", g.client.Provider(), err)
		return analysis.Narrative{}, err
	}
	narrative.Provider = g.client.Provider()
	narrative.Model = g.client.Model()
	return narrative, nil
}

func systemPrompt(lang string) string {
	language := "English"
	if strings.HasPrefix(strings.ToLower(lang), i18n.Korean) {
		language = "Korean"
	}
	return "You are an expert leadership analyst for a four-dimension leadership assessment: " +
		"the Blake & Mouton grid (people vs production), Radical Candor (care vs challenge), " +
		"Leader-Member Exchange (relationship quality) and hidden influence patterns. " +
		"Answer in " + language + " with a single JSON object and nothing else."
}

func userPrompt(req analysis.NarrativeRequest) string {
	d := req.Dimensions
	orgContext := req.Org.Description
	if orgContext == "" {
		orgContext = "general corporate environment"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analyse this leadership profile.\n\n")
	fmt.Fprintf(&b, "People: %.2f/7\nProduction: %.2f/7\nCare: %.2f/7\nChallenge: %.2f/7\nLMX: %.2f/7\n", d.People, d.Production, d.Care, d.Challenge, d.LMX)
	fmt.Fprintf(&b, "Leadership style: %s\nRisk level: %s\nOrganisational context: %s\n\n", req.Style, req.Risk, orgContext)
	fmt.Fprintf(&b, "Return JSON with keys \"strengths\" (%d items), \"improvements\" (%d items), "+
		"\"action_plans\" (%d concrete items) and \"expected_outcomes\" (what changes in six months, one paragraph).",
		maxStrengths, maxImprovements, maxActionPlans)
	return b.String()
}

type narrativePayload struct {
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	ActionPlans      []string `json:"action_plans"`
	ExpectedOutcomes string   `json:"expected_outcomes"`
}

// ParseNarrative reads a provider answer. JSON (possibly fenced or slightly
// malformed) is preferred; numbered section text is accepted as a fallback.
func ParseNarrative(content string) (analysis.Narrative, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return analysis.Narrative{}, errors.New("empty narrative")
	}

	if payload, ok := parseJSONNarrative(content); ok {
		return finish(payload)
	}
	return finish(parseSectionNarrative(content))
}

func finish(p narrativePayload) (analysis.Narrative, error) {
	n := analysis.Narrative{
		Strengths:        clip(p.Strengths, maxStrengths),
		Improvements:     clip(p.Improvements, maxImprovements),
		ActionPlans:      clip(p.ActionPlans, maxActionPlans),
		ExpectedOutcomes: strings.TrimSpace(p.ExpectedOutcomes),
	}
	if len(n.Strengths) == 0 && len(n.Improvements) == 0 && len(n.ActionPlans) == 0 {
		return analysis.Narrative{}, errors.New("narrative has no strengths, improvements or action plans")
	}
	return n, nil
}

func parseJSONNarrative(content string) (narrativePayload, bool) {
	start := strings.Index(content, "{")
	if start < 0 {
		return narrativePayload{}, false
	}
	candidate := content[start:]
	if end := strings.LastIndex(candidate, "}"); end >= 0 {
		candidate = candidate[:end+1]
	}

	var payload narrativePayload
	if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
		return payload, true
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return narrativePayload{}, false
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return narrativePayload{}, false
	}
	return payload, true
}

type section int

const (
	sectionNone section = iota
	sectionStrengths
	sectionImprovements
	sectionActions
	sectionOutcomes
)

var sectionMarkers = []struct {
	section section
	markers []string
}{
	{sectionStrengths, []string{"strength", "강점"}},
	{sectionImprovements, []string{"improvement", "blind spot", "개선 영역", "사각지대"}},
	{sectionActions, []string{"action plan", "development strateg", "실행 계획", "개발 전략"}},
	{sectionOutcomes, []string{"expected outcome", "six months", "예상 성과", "성장 시나리오"}},
}

func detectSection(line string) (section, bool) {
	lower := strings.ToLower(line)
	if !isHeading(line) {
		return sectionNone, false
	}
	for _, m := range sectionMarkers {
		for _, marker := range m.markers {
			if strings.Contains(lower, marker) {
				return m.section, true
			}
		}
	}
	return sectionNone, false
}

// isHeading accepts markdown headings, bold titles, numbered titles that are
// bold or end in a colon, and plain titles ending in a colon. Bulleted lines
// are always items.
func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "#"):
		return true
	case isBoldTitle(trimmed):
		return true
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "•"):
		return false
	}
	if rest, ok := cutNumber(trimmed); ok {
		return isBoldTitle(rest) || strings.HasSuffix(rest, ":")
	}
	return strings.HasSuffix(trimmed, ":") && len([]rune(trimmed)) <= maxTitleRunes
}

const maxTitleRunes = 40

func isBoldTitle(s string) bool {
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	return len(s) > 4 && strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**")
}

// cutNumber strips a leading "1." or "1)" marker.
func cutNumber(s string) (string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || (s[i] != '.' && s[i] != ')') {
		return "", false
	}
	return strings.TrimSpace(s[i+1:]), true
}

func parseSectionNarrative(content string) narrativePayload {
	var p narrativePayload
	current := sectionNone
	var outcomes []string

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if s, ok := detectSection(line); ok {
			current = s
			continue
		}
		item := stripBullet(line)
		if item == "" {
			continue
		}
		switch current {
		case sectionStrengths:
			p.Strengths = append(p.Strengths, item)
		case sectionImprovements:
			p.Improvements = append(p.Improvements, item)
		case sectionActions:
			p.ActionPlans = append(p.ActionPlans, item)
		case sectionOutcomes:
			outcomes = append(outcomes, item)
		}
	}
	p.ExpectedOutcomes = strings.Join(outcomes, " ")
	return p
}

func stripBullet(line string) string {
	line = strings.TrimLeft(line, "-•* ")
	i := 0
	runes := []rune(line)
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}
	if i > 0 && i < len(runes) && (runes[i] == '.' || runes[i] == ')') {
		line = string(runes[i+1:])
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
}

func clip(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out
}
