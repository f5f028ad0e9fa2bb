package analysis

import (
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
)

const (
	strongScore  = 6.0
	weakScore    = 3.0
	planFloor    = 4.0
	maxPlanItems = 5
)

// RuleBased derives insights from fixed score thresholds.
type RuleBased struct {
	catalog *i18n.Catalog
}

// NewRuleBased builds the fallback generator.
func NewRuleBased(catalog *i18n.Catalog) *RuleBased {
	if catalog == nil {
		catalog = i18n.NewCatalog(i18n.English)
	}
	return &RuleBased{catalog: catalog}
}

// Insights applies the rules to req and renders them in req.Org.Language.
func (r *RuleBased) Insights(req NarrativeRequest) Insights {
	lang := r.language(req.Org.Language)
	d := req.Dimensions

	var strengths, weaknesses, improvements []string
	add := func(dst *[]string, key string) {
		*dst = append(*dst, r.catalog.Translate(key, lang))
	}

	switch {
	case d.People >= strongScore:
		add(&strengths, i18n.KeyStrengthPeople)
	case d.People <= weakScore:
		add(&weaknesses, i18n.KeyWeaknessPeople)
		add(&improvements, i18n.KeyImprovePeople)
	}

	switch {
	case d.Production >= strongScore:
		add(&strengths, i18n.KeyStrengthProduction)
	case d.Production <= weakScore:
		add(&weaknesses, i18n.KeyWeaknessProduction)
		add(&improvements, i18n.KeyImproveProduction)
	}

	switch {
	case d.Care >= strongScore && d.Challenge >= strongScore:
		add(&strengths, i18n.KeyStrengthRadicalCandor)
	case d.Care >= strongScore && d.Challenge <= weakScore:
		add(&weaknesses, i18n.KeyWeaknessRuinous)
		add(&improvements, i18n.KeyImproveRuinous)
	case d.Care <= weakScore && d.Challenge >= strongScore:
		add(&weaknesses, i18n.KeyWeaknessObnoxious)
		add(&improvements, i18n.KeyImproveObnoxious)
	}

	switch {
	case d.LMX >= strongScore:
		add(&strengths, i18n.KeyStrengthLMX)
	case d.LMX <= weakScore:
		add(&weaknesses, i18n.KeyWeaknessLMX)
		add(&improvements, i18n.KeyImproveLMX)
	}

	return Insights{
		Strengths:        nonNil(strengths),
		Weaknesses:       nonNil(weaknesses),
		Improvements:     nonNil(improvements),
		StyleDescription: r.StyleDescription(req.Style, lang),
		DevelopmentPlan:  r.developmentPlan(d, req.Style, lang),
		Provider:         ProviderRuleBased,
	}
}

// StyleDescription renders the one-line description of style.
func (r *RuleBased) StyleDescription(style scoring.Style, lang string) string {
	key := i18n.StyleKey(string(style))
	text := r.catalog.Translate(key, r.language(lang))
	if text == key {
		return r.catalog.Translate(i18n.KeyStyleUnknown, r.language(lang))
	}
	return text
}

func (r *RuleBased) developmentPlan(d scoring.Dimensions, style scoring.Style, lang string) []string {
	var keys []string
	switch style {
	case scoring.StyleImpoverished:
		keys = append(keys, i18n.KeyPlanImpoverished1, i18n.KeyPlanImpoverished2, i18n.KeyPlanImpoverished3)
	case scoring.StyleTeamLeader:
		keys = append(keys, i18n.KeyPlanTeamLeader1, i18n.KeyPlanTeamLeader2, i18n.KeyPlanTeamLeader3)
	}
	if d.People < planFloor {
		keys = append(keys, i18n.KeyPlanPeople)
	}
	if d.Production < planFloor {
		keys = append(keys, i18n.KeyPlanProduction)
	}
	if d.LMX < planFloor {
		keys = append(keys, i18n.KeyPlanLMX)
	}
	if len(keys) > maxPlanItems {
		keys = keys[:maxPlanItems]
	}
	plan := make([]string, 0, len(keys))
	for _, key := range keys {
		plan = append(plan, r.catalog.Translate(key, lang))
	}
	return plan
}

func (r *RuleBased) language(lang string) string {
	if lang == "" {
		return r.catalog.Default()
	}
	return r.catalog.Resolve(lang)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
