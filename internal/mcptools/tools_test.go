package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func uniformResponses(value int) map[string]any {
	out := make(map[string]any)
	for _, group := range scoring.Items {
		for _, item := range group.Items {
			out[item] = float64(value)
		}
	}
	return out
}

func TestScoreTool(t *testing.T) {
	tool := NewScoreTool(i18n.NewCatalog(i18n.English))
	def := tool.Definition()
	assert.Equal(t, "score_responses", def.Name)
	assert.Contains(t, def.InputSchema.Required, "responses")

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"responses": uniformResponses(7), "language": "en"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var out scoreOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
	assert.Equal(t, scoring.StyleTeamLeader, out.Style)
	assert.Equal(t, 7.0, out.Dimensions.People)
	assert.Zero(t, out.Missing)
	assert.NotEmpty(t, out.StyleName)
}

func TestScoreToolRejectsBadInput(t *testing.T) {
	tool := NewScoreTool(i18n.NewCatalog(i18n.English))

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"responses": map[string]any{"bm_1": 2.5}}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestScoreToolCountsMissingItems(t *testing.T) {
	tool := NewScoreTool(i18n.NewCatalog(i18n.English))
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"responses": map[string]any{"BM_1": 5.0}}))
	require.NoError(t, err)

	var out scoreOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
	assert.Equal(t, scoring.TotalItems()-1, out.Missing)
}

func TestClassifyTool(t *testing.T) {
	tool := NewClassifyTool()

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"people": 1.0, "production": 1.0}))
	require.NoError(t, err)
	assert.Equal(t, string(scoring.StyleImpoverished), resultText(res))

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"people": 9.0, "production": 1.0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"people": 4.0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestDetectTool(t *testing.T) {
	tool := NewDetectTool(i18n.NewCatalog(i18n.English))

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"people": 7.0, "production": 1.0, "candor": 4.0, "lmx": 4.0, "language": "en",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var out detectOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
	require.NotEmpty(t, out.Anomalies)
	assert.NotEmpty(t, out.Anomalies[0].Reason)
	assert.Positive(t, out.Score)
	assert.NotEmpty(t, out.Grade)
	assert.NotNil(t, out.Recommendations)
}

func TestQuestionsTool(t *testing.T) {
	questions, err := survey.LoadCatalog()
	require.NoError(t, err)
	tool := NewQuestionsTool(questions)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"language": "ko"}))
	require.NoError(t, err)

	var out []survey.LocalizedQuestion
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
	assert.Len(t, out, scoring.TotalItems())
}

func TestNewServerRegistersTools(t *testing.T) {
	questions, err := survey.LoadCatalog()
	require.NoError(t, err)
	s := NewServer("test", i18n.NewCatalog(i18n.English), questions)

	reply := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(reply)
	require.NoError(t, err)
	for _, name := range []string{"score_responses", "classify_style", "detect_anomalies", "list_questions"} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}
