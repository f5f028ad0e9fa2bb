// Package analysis turns a response set into a stored AnalysisRecord: scores,
// style, risk and narrative insights, with a rule-based fallback whenever the
// narrative provider is unavailable.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/taejunjeon/leadership/internal/scoring"
)

// ProviderRuleBased marks insights produced without a narrative provider.
const ProviderRuleBased = "rule_based"

// Insights is the narrative part of an analysis.
type Insights struct {
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Improvements     []string `json:"improvements"`
	StyleDescription string   `json:"style_description"`
	DevelopmentPlan  []string `json:"development_plan"`
	Summary          string   `json:"summary,omitempty"`
	Provider         string   `json:"ai_provider"`
	Model            string   `json:"ai_model,omitempty"`
}

// RuleBased reports whether the insights came from the fallback rules.
func (i Insights) RuleBased() bool {
	return i.Provider == ProviderRuleBased
}

// Record is one immutable analysis of a subject.
type Record struct {
	ID           string             `json:"id"`
	SubjectID    string             `json:"user_id"`
	Dimensions   scoring.Dimensions `json:"dimensions"`
	Style        scoring.Style      `json:"leadership_style"`
	Risk         scoring.RiskLevel  `json:"overall_risk_level"`
	Insights     Insights           `json:"ai_insights"`
	Organization string             `json:"organization,omitempty"`
	Department   string             `json:"department,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// OrgContext carries optional organisational context for the narrative.
type OrgContext struct {
	Organization string `json:"organization,omitempty"`
	Department   string `json:"department,omitempty"`
	Description  string `json:"context,omitempty"`
	Language     string `json:"language,omitempty"`
}

// NarrativeRequest is what a NarrativeGenerator sees.
type NarrativeRequest struct {
	SubjectID  string
	Dimensions scoring.Dimensions
	Style      scoring.Style
	Risk       scoring.RiskLevel
	Org        OrgContext
}

// Narrative is a provider's parsed output.
type Narrative struct {
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	ActionPlans      []string `json:"action_plans"`
	ExpectedOutcomes string   `json:"expected_outcomes"`
	Provider         string   `json:"provider"`
	Model            string   `json:"model"`
}

// GenerationResult is either a Narrative or the reason generation failed.
type GenerationResult struct {
	narrative Narrative
	err       error
}

// Generated wraps a successful narrative.
func Generated(n Narrative) GenerationResult {
	return GenerationResult{narrative: n}
}

// Failed wraps a failure reason. A nil err is recorded as errGenerationFailed.
func Failed(err error) GenerationResult {
	if err == nil {
		err = errGenerationFailed
	}
	return GenerationResult{err: err}
}

// OK reports whether the result carries a narrative.
func (r GenerationResult) OK() bool { return r.err == nil }

// Narrative returns the payload; meaningful only when OK.
func (r GenerationResult) Narrative() Narrative { return r.narrative }

// Err returns the failure reason, nil when OK.
func (r GenerationResult) Err() error { return r.err }

var errGenerationFailed = errors.New("narrative generation failed")

// NarrativeGenerator produces the narrative part of an analysis.
type NarrativeGenerator interface {
	Name() string
	Generate(ctx context.Context, req NarrativeRequest) GenerationResult
}
