// Package store persists submissions and analyses. Store is implemented in
// memory here and by the postgres and sqlstore subpackages.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an id is reused.
	ErrDuplicate = errors.New("duplicate id")
)

// Store is every persistence operation the service needs.
type Store interface {
	// FindRecentSubmissions lists identity's submissions created at or after since.
	FindRecentSubmissions(ctx context.Context, identity string, since time.Time) ([]survey.Summary, error)
	SaveSubmission(ctx context.Context, rec survey.Record) error
	LatestSubmission(ctx context.Context, subjectID string) (survey.Record, error)
	// ListSubmissions returns up to limit submissions, newest first; 0 means all.
	ListSubmissions(ctx context.Context, subjectID string, limit int) ([]survey.Record, error)
	SubmissionStats(ctx context.Context) (survey.Stats, error)

	SaveAnalysis(ctx context.Context, rec analysis.Record) error
	LatestAnalysis(ctx context.Context, subjectID string) (analysis.Record, error)
	// AnalysisHistory returns up to limit analyses, newest first; 0 means all.
	AnalysisHistory(ctx context.Context, subjectID string, limit int) ([]analysis.Record, error)
	// OrgAnalyses returns the latest analysis of every subject in the
	// organization, narrowed to department when it is not empty.
	OrgAnalyses(ctx context.Context, organization, department string) ([]analysis.Record, error)
	// PeerStyles counts the latest style of every subject except excludeSubject.
	PeerStyles(ctx context.Context, excludeSubject string) (map[scoring.Style]int, error)
	// RecentSubjects lists subjects analysed at or after since.
	RecentSubjects(ctx context.Context, since time.Time) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}

// LatestPerSubject keeps the first record seen for each subject. Input must
// be ordered newest first.
func LatestPerSubject(records []analysis.Record) []analysis.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]analysis.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.SubjectID]; ok {
			continue
		}
		seen[rec.SubjectID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// CountStyles tallies styles, skipping excludeSubject.
func CountStyles(latest []analysis.Record, excludeSubject string) map[scoring.Style]int {
	counts := make(map[scoring.Style]int)
	for _, rec := range latest {
		if rec.SubjectID == excludeSubject {
			continue
		}
		counts[rec.Style]++
	}
	return counts
}

// NewestFirst orders analyses by creation time descending, id breaking ties.
func NewestFirst(records []analysis.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
