// Package report builds subject summaries, team reports and PDF exports from
// stored analyses.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

// ErrNoTeamData is returned when an organization has no analysed members.
var ErrNoTeamData = errors.New("no analysed members in this organization")

// Store is the read side the reports need.
type Store interface {
	LatestAnalysis(ctx context.Context, subjectID string) (analysis.Record, error)
	AnalysisHistory(ctx context.Context, subjectID string, limit int) ([]analysis.Record, error)
	OrgAnalyses(ctx context.Context, organization, department string) ([]analysis.Record, error)
	PeerStyles(ctx context.Context, excludeSubject string) (map[scoring.Style]int, error)
	LatestSubmission(ctx context.Context, subjectID string) (survey.Record, error)
}

// Service answers report queries.
type Service struct {
	store   Store
	catalog *i18n.Catalog
	rules   *analysis.RuleBased
	logger  logging.Logger
	now     func() time.Time
}

// NewService builds a Service.
func NewService(store Store, catalog *i18n.Catalog) *Service {
	if catalog == nil {
		catalog = i18n.NewCatalog(i18n.English)
	}
	return &Service{
		store:   store,
		catalog: catalog,
		rules:   analysis.NewRuleBased(catalog),
		logger:  logging.NewComponentLogger("report"),
		now:     time.Now,
	}
}

// Summary reports the latest analysis with 90-day trends and peer styles.
func (s *Service) Summary(ctx context.Context, subjectID string) (SummaryReport, error) {
	latest, err := s.store.LatestAnalysis(ctx, subjectID)
	if err != nil {
		return SummaryReport{}, err
	}
	history, err := s.store.AnalysisHistory(ctx, subjectID, 0)
	if err != nil {
		return SummaryReport{}, err
	}
	peers, err := s.store.PeerStyles(ctx, subjectID)
	if err != nil {
		return SummaryReport{}, err
	}
	return BuildSummary(latest, history, peers, s.now()), nil
}

// Team reports on the latest analysis of every member of organization.
func (s *Service) Team(ctx context.Context, organization, department, lang string) (TeamReport, error) {
	members, err := s.store.OrgAnalyses(ctx, organization, department)
	if err != nil {
		return TeamReport{}, err
	}
	if len(members) == 0 {
		return TeamReport{}, ErrNoTeamData
	}
	rep := BuildTeam(organization, department, members)
	rep.Recommendations = s.catalog.RenderAll(rep.recommendations, s.catalog.Resolve(lang))
	return rep, nil
}

// PDF renders the subject's latest analysis, or analysisID when set.
func (s *Service) PDF(ctx context.Context, subjectID, analysisID string) (Document, error) {
	rec, err := s.pick(ctx, subjectID, analysisID)
	if err != nil {
		return Document{}, err
	}
	profile := Profile{Name: subjectID, Organization: rec.Organization, Department: rec.Department}
	if sub, err := s.store.LatestSubmission(ctx, subjectID); err == nil {
		profile = Profile{Name: sub.Name, Organization: sub.Organization, Department: sub.Department, Position: sub.Position}
	} else {
		logging.FromContext(ctx, s.logger).Debug("no submission profile for %s: %v", subjectID, err)
	}
	return RenderPDF(rec, profile, s.rules, s.catalog, s.now())
}

func (s *Service) pick(ctx context.Context, subjectID, analysisID string) (analysis.Record, error) {
	if analysisID == "" {
		return s.store.LatestAnalysis(ctx, subjectID)
	}
	history, err := s.store.AnalysisHistory(ctx, subjectID, 0)
	if err != nil {
		return analysis.Record{}, err
	}
	for _, rec := range history {
		if rec.ID == analysisID {
			return rec, nil
		}
	}
	return analysis.Record{}, ErrAnalysisNotFound
}

// ErrAnalysisNotFound is returned when analysisID does not belong to the subject.
var ErrAnalysisNotFound = errors.New("analysis not found")
