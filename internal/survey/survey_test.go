package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/scoring"
)

func TestContentHashIgnoresOrder(t *testing.T) {
	a := Submission{Email: "Lead@Example.com ", Responses: []ItemResponse{
		{QuestionID: "bm_1", Value: 5}, {QuestionID: "bm_2", Value: 3}, {QuestionID: "lmx_1", Value: 6},
	}}
	b := Submission{Email: "lead@example.com", Responses: []ItemResponse{
		{QuestionID: "LMX_1", Value: 6}, {QuestionID: "bm_2", Value: 3}, {QuestionID: "bm_1", Value: 5},
	}}
	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.Len(t, a.ContentHash(), 64)

	b.Responses[0].Value = 7
	assert.NotEqual(t, a.ContentHash(), b.ContentHash())
}

func TestFingerprintCoversEveryField(t *testing.T) {
	secs := 600
	base := Submission{SubjectID: "u1", Name: "Kim Lead", Email: "kim@example.com", CompletionSeconds: &secs,
		Responses: []ItemResponse{{QuestionID: "bm_1", Value: 5}}}
	assert.Equal(t, base.Fingerprint(), base.Fingerprint())
	assert.Len(t, base.Fingerprint(), 64)

	renamed := base
	renamed.Name = "X"
	assert.NotEqual(t, base.Fingerprint(), renamed.Fingerprint())
	assert.Equal(t, base.ContentHash(), renamed.ContentHash())

	reemailed := base
	reemailed.Email = "not-an-email"
	assert.NotEqual(t, base.Fingerprint(), reemailed.Fingerprint())

	fast := 5
	rushed := base
	rushed.CompletionSeconds = &fast
	assert.NotEqual(t, base.Fingerprint(), rushed.Fingerprint())
}

func TestIdentityPrefersSubject(t *testing.T) {
	s := Submission{SubjectID: "user-1", Email: "x@y.z"}
	assert.Equal(t, "user-1", s.Identity())

	anon := Submission{Email: " X@Y.Z"}
	assert.Equal(t, "x@y.z", anon.Identity())
	assert.NotEqual(t, HashResponses("user-1", nil), HashResponses("x@y.z", nil))
}

func TestNewRecord(t *testing.T) {
	secs := 300
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))
	s := Submission{Name: " Kim ", Email: "kim@example.com", CompletionSeconds: &secs,
		Responses: []ItemResponse{{QuestionID: "bm_1", Value: 4}}}

	rec := NewRecord("sub-1", s, now)
	assert.Equal(t, "kim@example.com", rec.SubjectID)
	assert.Equal(t, "Kim", rec.Name)
	assert.Equal(t, 300, rec.CompletionSeconds)
	assert.Equal(t, map[string]int{"bm_1": 4}, rec.Responses)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Equal(t, s.ContentHash(), rec.ContentHash)
}

func TestCatalogMatchesScoringItems(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Scale.Min)
	assert.Equal(t, 7, c.Scale.Max)

	questions := c.Localized("ko")
	require.Len(t, questions, scoring.TotalItems())
	assert.Equal(t, "bm_1", questions[0].ID)
	assert.NotEmpty(t, questions[0].Text)

	fallback := c.Localized("fr")
	assert.Equal(t, c.Sections[0].Questions[0].Text["en"], fallback[0].Text)
}

func TestParseCatalogRejectsUnknownItems(t *testing.T) {
	_, err := parseCatalog([]byte("sections:\n  - id: x\n    questions:\n      - id: zz_1\n        dimension: people\n"))
	require.Error(t, err)
}
