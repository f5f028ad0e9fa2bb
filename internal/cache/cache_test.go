package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/validation"
)

func TestTTLExpiresEntries(t *testing.T) {
	c := New[string, int](Config{Size: 4, TTL: 20 * time.Millisecond}, time.Hour)
	c.Add("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestTTLEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](Config{Size: 2}, time.Hour)
	c.Add("a", 1)
	c.Add("b", 2)
	_, _ = c.Get("a")
	c.Add("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Remove("a")
	assert.Equal(t, 1, c.Len())
}

func TestTypedCaches(t *testing.T) {
	results := NewValidations(Config{})
	results.Add(ValidationKey("hash", "ko"), validation.Result{IsValid: true})
	got, ok := results.Get(ValidationKey("hash", "ko"))
	require.True(t, ok)
	assert.True(t, got.IsValid)
	_, ok = results.Get(ValidationKey("hash", "en"))
	assert.False(t, ok)

	reports := NewBatchReports(Config{Size: 1})
	reports.Add("r1", validation.BatchReport{ReportID: "r1", OwnerID: "alice"})
	rep, ok := reports.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "alice", rep.OwnerID)
}
