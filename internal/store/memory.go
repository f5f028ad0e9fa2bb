package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

// Memory is a process-local Store used for tests and single-node demos.
type Memory struct {
	mu          sync.RWMutex
	submissions []survey.Record
	analyses    []analysis.Record
	ids         map[string]struct{}
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

func (m *Memory) claim(id string) error {
	if _, ok := m.ids[id]; ok {
		return ErrDuplicate
	}
	m.ids[id] = struct{}{}
	return nil
}

func (m *Memory) FindRecentSubmissions(ctx context.Context, identity string, since time.Time) ([]survey.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []survey.Summary
	for i := len(m.submissions) - 1; i >= 0; i-- {
		rec := m.submissions[i]
		if rec.Identity == identity && !rec.CreatedAt.Before(since) {
			out = append(out, survey.Summary{ID: rec.ID, CreatedAt: rec.CreatedAt, ContentHash: rec.ContentHash})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SaveSubmission(ctx context.Context, rec survey.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.claim("s:" + rec.ID); err != nil {
		return err
	}
	rec.Responses = copyResponses(rec.Responses)
	m.submissions = append(m.submissions, rec)
	return nil
}

func (m *Memory) LatestSubmission(ctx context.Context, subjectID string) (survey.Record, error) {
	list, err := m.ListSubmissions(ctx, subjectID, 1)
	if err != nil {
		return survey.Record{}, err
	}
	if len(list) == 0 {
		return survey.Record{}, ErrNotFound
	}
	return list[0], nil
}

func (m *Memory) ListSubmissions(ctx context.Context, subjectID string, limit int) ([]survey.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []survey.Record{}
	for _, rec := range m.submissions {
		if rec.SubjectID == subjectID {
			rec.Responses = copyResponses(rec.Responses)
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return limitSlice(out, limit), nil
}

func (m *Memory) SubmissionStats(ctx context.Context) (survey.Stats, error) {
	if err := ctx.Err(); err != nil {
		return survey.Stats{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := survey.Stats{TotalResponses: len(m.submissions)}
	timed, total := 0, 0
	for _, rec := range m.submissions {
		if rec.CompletionSeconds > 0 {
			timed++
			total += rec.CompletionSeconds
		}
		if stats.LastResponseAt == nil || rec.CreatedAt.After(*stats.LastResponseAt) {
			at := rec.CreatedAt
			stats.LastResponseAt = &at
		}
	}
	if timed > 0 {
		stats.AverageCompletionTime = float64(total) / float64(timed)
	}
	return stats, nil
}

func (m *Memory) SaveAnalysis(ctx context.Context, rec analysis.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.claim("a:" + rec.ID); err != nil {
		return err
	}
	m.analyses = append(m.analyses, rec)
	return nil
}

func (m *Memory) LatestAnalysis(ctx context.Context, subjectID string) (analysis.Record, error) {
	history, err := m.AnalysisHistory(ctx, subjectID, 1)
	if err != nil {
		return analysis.Record{}, err
	}
	if len(history) == 0 {
		return analysis.Record{}, ErrNotFound
	}
	return history[0], nil
}

func (m *Memory) AnalysisHistory(ctx context.Context, subjectID string, limit int) ([]analysis.Record, error) {
	return m.filterAnalyses(ctx, limit, func(rec analysis.Record) bool { return rec.SubjectID == subjectID })
}

func (m *Memory) OrgAnalyses(ctx context.Context, organization, department string) ([]analysis.Record, error) {
	all, err := m.filterAnalyses(ctx, 0, func(rec analysis.Record) bool {
		return rec.Organization == organization && (department == "" || rec.Department == department)
	})
	if err != nil {
		return nil, err
	}
	return LatestPerSubject(all), nil
}

func (m *Memory) PeerStyles(ctx context.Context, excludeSubject string) (map[scoring.Style]int, error) {
	all, err := m.filterAnalyses(ctx, 0, func(analysis.Record) bool { return true })
	if err != nil {
		return nil, err
	}
	return CountStyles(LatestPerSubject(all), excludeSubject), nil
}

func (m *Memory) RecentSubjects(ctx context.Context, since time.Time) ([]string, error) {
	recent, err := m.filterAnalyses(ctx, 0, func(rec analysis.Record) bool { return !rec.CreatedAt.Before(since) })
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recent))
	for _, rec := range LatestPerSubject(recent) {
		out = append(out, rec.SubjectID)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) filterAnalyses(ctx context.Context, limit int, keep func(analysis.Record) bool) ([]analysis.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []analysis.Record{}
	for _, rec := range m.analyses {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	m.mu.RUnlock()
	NewestFirst(out)
	return limitSlice(out, limit), nil
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Memory) Close() error { return nil }

func copyResponses(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
