// Package survey holds the submission model, its content hash and the
// embedded question catalog.
package survey

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ItemResponse is one answered question.
type ItemResponse struct {
	QuestionID string `json:"question_id"`
	Value      int    `json:"value"`
}

// Submission is a raw survey submission as received from a respondent.
type Submission struct {
	// SubjectID is the authenticated subject, when the caller has one.
	SubjectID         string         `json:"user_id,omitempty"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Organization      string         `json:"organization,omitempty"`
	Department        string         `json:"department,omitempty"`
	Position          string         `json:"position,omitempty"`
	Responses         []ItemResponse `json:"responses"`
	CompletionSeconds *int           `json:"completion_time_seconds,omitempty"`
	DeviceInfo        map[string]any `json:"device_info,omitempty"`
}

// NormalizeID canonicalises a question id.
func NormalizeID(questionID string) string {
	return strings.ToLower(strings.TrimSpace(questionID))
}

// RawResponses returns the item id to rating map. A repeated id keeps the
// last value.
func (s Submission) RawResponses() map[string]int {
	raw := make(map[string]int, len(s.Responses))
	for _, r := range s.Responses {
		raw[NormalizeID(r.QuestionID)] = r.Value
	}
	return raw
}

// Identity scopes duplicate detection: the authenticated subject when
// present, otherwise the normalised email.
func (s Submission) Identity() string {
	if id := strings.TrimSpace(s.SubjectID); id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(s.Email))
}

// ContentHash is stable across response ordering.
func (s Submission) ContentHash() string {
	return HashResponses(s.Identity(), s.RawResponses())
}

// Fingerprint hashes every field of the submission, so two submissions share
// a fingerprint only when validation would see identical input.
func (s Submission) Fingerprint() string {
	data, err := json.Marshal(s)
	if err != nil {
		// device_info holding a value json cannot encode
		data = []byte(s.Name + "\x00" + s.Email + "\x00" + s.ContentHash())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashResponses hashes identity plus responses ordered by item id.
func HashResponses(identity string, raw map[string]int) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(identity)
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(raw[k]))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Record is a persisted submission.
type Record struct {
	ID                string         `json:"id"`
	SubjectID         string         `json:"user_id"`
	Identity          string         `json:"-"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Organization      string         `json:"organization,omitempty"`
	Department        string         `json:"department,omitempty"`
	Position          string         `json:"position,omitempty"`
	Responses         map[string]int `json:"responses"`
	CompletionSeconds int            `json:"completion_time_seconds"`
	ContentHash       string         `json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
}

// NewRecord captures s for persistence.
func NewRecord(id string, s Submission, now time.Time) Record {
	completion := 0
	if s.CompletionSeconds != nil {
		completion = *s.CompletionSeconds
	}
	subject := s.SubjectID
	if subject == "" {
		subject = s.Identity()
	}
	return Record{
		ID:                id,
		SubjectID:         subject,
		Identity:          s.Identity(),
		Name:              strings.TrimSpace(s.Name),
		Email:             strings.TrimSpace(s.Email),
		Organization:      s.Organization,
		Department:        s.Department,
		Position:          s.Position,
		Responses:         s.RawResponses(),
		CompletionSeconds: completion,
		ContentHash:       s.ContentHash(),
		CreatedAt:         now.UTC(),
	}
}

// Summary is what duplicate detection needs about a prior submission.
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ContentHash string    `json:"content_hash"`
}

// Stats aggregates stored submissions.
type Stats struct {
	TotalResponses        int        `json:"total_responses"`
	AverageCompletionTime float64    `json:"average_completion_time"`
	LastResponseAt        *time.Time `json:"last_response_at,omitempty"`
}
