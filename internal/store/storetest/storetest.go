// Package storetest is a conformance suite run against every store.Store.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/survey"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// Submission builds a stored submission at base+offset.
func Submission(id, subject string, offset time.Duration, completion int) survey.Record {
	return survey.Record{
		ID:                id,
		SubjectID:         subject,
		Identity:          subject,
		Name:              "Kim " + subject,
		Email:             subject + "@example.com",
		Organization:      "acme",
		Department:        "eng",
		Responses:         map[string]int{"bm_1": 5, "bm_2": 6},
		CompletionSeconds: completion,
		ContentHash:       "hash-" + id,
		CreatedAt:         base.Add(offset),
	}
}

// Analysis builds a stored analysis at base+offset.
func Analysis(id, subject, org, dept string, style scoring.Style, offset time.Duration) analysis.Record {
	return analysis.Record{
		ID:         id,
		SubjectID:  subject,
		Dimensions: scoring.Dimensions{People: 5.5, Production: 4.25, Care: 5, Challenge: 3, LMX: 6, Machiavellianism: 2.14},
		Style:      style,
		Risk:       scoring.RiskLow,
		Insights: analysis.Insights{
			Strengths:       []string{"listens"},
			Weaknesses:      []string{},
			Improvements:    []string{},
			DevelopmentPlan: []string{"1:1s"},
			Provider:        analysis.ProviderRuleBased,
		},
		Organization: org,
		Department:   dept,
		CreatedAt:    base.Add(offset),
	}
}

// Run exercises s, which must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("submissions", func(t *testing.T) {
		require.NoError(t, s.SaveSubmission(ctx, Submission("sub-1", "alice", 0, 300)))
		require.NoError(t, s.SaveSubmission(ctx, Submission("sub-2", "alice", time.Hour, 500)))
		require.NoError(t, s.SaveSubmission(ctx, Submission("sub-3", "bob", 2*time.Hour, 0)))

		err := s.SaveSubmission(ctx, Submission("sub-1", "alice", 0, 300))
		assert.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)

		latest, err := s.LatestSubmission(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "sub-2", latest.ID)
		assert.Equal(t, map[string]int{"bm_1": 5, "bm_2": 6}, latest.Responses)
		assert.Equal(t, "hash-sub-2", latest.ContentHash)
		assert.True(t, base.Add(time.Hour).Equal(latest.CreatedAt))

		_, err = s.LatestSubmission(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrNotFound)

		list, err := s.ListSubmissions(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "sub-2", list[0].ID)

		recent, err := s.FindRecentSubmissions(ctx, "alice", base.Add(30*time.Minute))
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "hash-sub-2", recent[0].ContentHash)

		stats, err := s.SubmissionStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalResponses)
		assert.InDelta(t, 400, stats.AverageCompletionTime, 0.001)
		require.NotNil(t, stats.LastResponseAt)
		assert.True(t, base.Add(2*time.Hour).Equal(*stats.LastResponseAt))
	})

	t.Run("analyses", func(t *testing.T) {
		require.NoError(t, s.SaveAnalysis(ctx, Analysis("an-1", "alice", "acme", "eng", scoring.StyleImpoverished, 0)))
		require.NoError(t, s.SaveAnalysis(ctx, Analysis("an-2", "alice", "acme", "eng", scoring.StyleTeamLeader, 24*time.Hour)))
		require.NoError(t, s.SaveAnalysis(ctx, Analysis("an-3", "bob", "acme", "ops", scoring.StyleTeamLeader, time.Hour)))
		require.NoError(t, s.SaveAnalysis(ctx, Analysis("an-4", "carol", "other", "eng", scoring.StyleCountryClub, 2*time.Hour)))

		latest, err := s.LatestAnalysis(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "an-2", latest.ID)
		assert.Equal(t, scoring.StyleTeamLeader, latest.Style)
		assert.InDelta(t, 2.14, latest.Dimensions.Machiavellianism, 1e-9)
		assert.Equal(t, []string{"listens"}, latest.Insights.Strengths)
		assert.True(t, latest.Insights.RuleBased())

		_, err = s.LatestAnalysis(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrNotFound)

		history, err := s.AnalysisHistory(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "an-2", history[0].ID)
		assert.Equal(t, "an-1", history[1].ID)

		limited, err := s.AnalysisHistory(ctx, "alice", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		team, err := s.OrgAnalyses(ctx, "acme", "")
		require.NoError(t, err)
		assert.Len(t, team, 2)

		eng, err := s.OrgAnalyses(ctx, "acme", "eng")
		require.NoError(t, err)
		require.Len(t, eng, 1)
		assert.Equal(t, "an-2", eng[0].ID)

		peers, err := s.PeerStyles(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, map[scoring.Style]int{scoring.StyleTeamLeader: 1, scoring.StyleCountryClub: 1}, peers)

		subjects, err := s.RecentSubjects(ctx, base.Add(90*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "carol"}, subjects)
	})
}
