package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/store/storetest"
)

func TestMemoryConformance(t *testing.T) {
	storetest.Run(t, store.NewMemory())
}

func TestMemoryCopiesResponses(t *testing.T) {
	s := store.NewMemory()
	rec := storetest.Submission("s1", "alice", 0, 10)
	require.NoError(t, s.SaveSubmission(context.Background(), rec))
	rec.Responses["bm_1"] = 1

	got, err := s.LatestSubmission(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Responses["bm_1"])
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.NewMemory().AnalysisHistory(ctx, "alice", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatestPerSubjectAndCountStyles(t *testing.T) {
	records := []analysis.Record{
		storetest.Analysis("a3", "alice", "acme", "", scoring.StyleTeamLeader, 3*time.Hour),
		storetest.Analysis("b1", "bob", "acme", "", scoring.StyleCustom, time.Hour),
		storetest.Analysis("a1", "alice", "acme", "", scoring.StyleImpoverished, 0),
	}
	latest := store.LatestPerSubject(records)
	require.Len(t, latest, 2)
	assert.Equal(t, "a3", latest[0].ID)

	assert.Equal(t, map[scoring.Style]int{scoring.StyleCustom: 1}, store.CountStyles(latest, "alice"))
}

func TestNewestFirstBreaksTiesByID(t *testing.T) {
	records := []analysis.Record{
		storetest.Analysis("a", "x", "", "", scoring.StyleCustom, 0),
		storetest.Analysis("b", "x", "", "", scoring.StyleCustom, 0),
		storetest.Analysis("c", "x", "", "", scoring.StyleCustom, -time.Hour),
	}
	store.NewestFirst(records)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "c", records[2].ID)
}
