package id

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixedIdentifiers(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewSubmissionID(), "sub-"))
	assert.True(t, strings.HasPrefix(NewAnalysisID(), "ana-"))
	assert.True(t, strings.HasPrefix(NewReportID(), "rep-"))
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}

func TestUUIDStrategy(t *testing.T) {
	SetStrategy(StrategyUUIDv7)
	defer SetStrategy(StrategyKSUID)

	got := NewAnalysisID()
	assert.Len(t, strings.TrimPrefix(got, "ana-"), 36)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithSubjectID(context.Background(), "user-1")
	ctx = WithLogID(ctx, "log-1")

	assert.Equal(t, "user-1", SubjectIDFromContext(ctx))
	assert.Equal(t, "log-1", LogIDFromContext(ctx))
	assert.Empty(t, SubjectIDFromContext(context.Background()))
	assert.Equal(t, context.Background(), WithSubjectID(context.Background(), ""))
}
