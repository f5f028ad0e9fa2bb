package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func uniformMap(value int) map[string]int {
	out := make(map[string]int)
	for _, group := range scoring.Items {
		for _, item := range group.Items {
			out[item] = value
		}
	}
	return out
}

func submissionJSON(t *testing.T) string {
	t.Helper()
	secs := 600
	sub := survey.Submission{Name: "Kim Lead", Email: "kim@example.com", CompletionSeconds: &secs}
	for _, group := range scoring.Items {
		for i, item := range group.Items {
			sub.Responses = append(sub.Responses, survey.ItemResponse{QuestionID: item, Value: 3 + i%3})
		}
	}
	data, err := json.Marshal(sub)
	require.NoError(t, err)
	return string(data)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "leadership "))
}

func TestScoreFromStdinMap(t *testing.T) {
	data, err := json.Marshal(uniformMap(7))
	require.NoError(t, err)

	out, _, err := run(t, string(data), "score", "--json")
	require.NoError(t, err)

	var rep scoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, scoring.StyleTeamLeader, rep.Style)
	assert.Equal(t, 7.0, rep.Dimensions.People)
	assert.NotNil(t, rep.Recommendations)
}

func TestScoreFromSubmissionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub.json")
	require.NoError(t, os.WriteFile(path, []byte(submissionJSON(t)), 0o600))

	out, _, err := run(t, "", "score", path, "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "people")
	assert.Contains(t, out, "Style:")
	assert.Contains(t, out, "Risk:")
}

func TestScoreRejectsGarbage(t *testing.T) {
	_, _, err := run(t, "not json", "score")
	require.Error(t, err)

	_, _, err = run(t, "{}", "score")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, submissionJSON(t), "validate", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	_, _, err = run(t, `{"name":"K","email":"nope","responses":[]}`, "validate", "--lang", "en")
	require.ErrorIs(t, err, errInvalidSubmission)
}

func TestTokenRequiresSecret(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "leadership.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("auth:\n  secret: cli-secret\n"), 0o600))

	out, _, err := run(t, "", "token", "u1", "--config", cfgPath, "--env-file", filepath.Join(dir, ".env"), "--role", "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("server:\n  addr: \":9090\"\n"), 0o600))
	_, _, err = run(t, "", "token", "u1", "--config", empty, "--env-file", filepath.Join(dir, ".env"))
	require.Error(t, err)
}
