// Package mcptools exposes the scoring engine as MCP tools over stdio.
//
// Each tool is a struct with a Definition returning its schema and a Handle
// processing the call. Tools are pure: they score what they are given and
// never touch storage.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

// NewServer registers every tool on a fresh MCP server.
func NewServer(version string, catalog *i18n.Catalog, questions *survey.Catalog) *server.MCPServer {
	s := server.NewMCPServer("leadership", version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	score := NewScoreTool(catalog)
	s.AddTool(score.Definition(), score.Handle)
	classify := NewClassifyTool()
	s.AddTool(classify.Definition(), classify.Handle)
	detect := NewDetectTool(catalog)
	s.AddTool(detect.Definition(), detect.Handle)
	if questions != nil {
		list := NewQuestionsTool(questions)
		s.AddTool(list.Definition(), list.Handle)
	}
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ratingArg reads a 1..7 score.
func ratingArg(req mcp.CallToolRequest, key string) (float64, error) {
	v, err := req.RequireFloat(key)
	if err != nil {
		return 0, err
	}
	if v < scoring.MinRating || v > scoring.MaxRating {
		return 0, fmt.Errorf("%s must be between %d and %d", key, scoring.MinRating, scoring.MaxRating)
	}
	return v, nil
}

// ScoreTool handles score_responses.
type ScoreTool struct {
	catalog *i18n.Catalog
}

func NewScoreTool(catalog *i18n.Catalog) *ScoreTool {
	return &ScoreTool{catalog: catalog}
}

func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_responses",
		mcp.WithDescription("Score a set of survey item ratings into leadership dimensions, style and risk."),
		mcp.WithObject("responses",
			mcp.Required(),
			mcp.Description("Map of item id (e.g. bm_1, rc_2, lmx_3) to rating 1..7"),
		),
		mcp.WithString("language",
			mcp.Description("Response language: en or ko"),
		),
	)
}

type scoreOutput struct {
	Dimensions scoring.Dimensions `json:"dimensions"`
	Style      scoring.Style      `json:"style"`
	StyleName  string             `json:"style_name"`
	Risk       scoring.RiskLevel  `json:"risk"`
	Missing    int                `json:"missing_items"`
}

func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	obj, ok := req.GetArguments()["responses"].(map[string]any)
	if !ok || len(obj) == 0 {
		return mcp.NewToolResultError("'responses' must be a non-empty object"), nil
	}
	raw := make(map[string]int, len(obj))
	for key, value := range obj {
		n, ok := value.(float64)
		if !ok || n != math.Trunc(n) {
			return mcp.NewToolResultError(fmt.Sprintf("rating for %q must be an integer", key)), nil
		}
		raw[survey.NormalizeID(key)] = int(n)
	}
	lang := t.catalog.Resolve(req.GetString("language", ""))

	d := scoring.Calculate(raw)
	style := scoring.Classify(d.People, d.Production)
	return jsonResult(scoreOutput{
		Dimensions: d,
		Style:      style,
		StyleName:  t.catalog.Translate(i18n.StyleKey(string(style)), lang),
		Risk:       scoring.AssessRisk(d),
		Missing:    scoring.TotalItems() - answered(raw),
	})
}

func answered(raw map[string]int) int {
	n := 0
	for _, group := range scoring.Items {
		for _, item := range group.Items {
			if _, ok := raw[item]; ok {
				n++
			}
		}
	}
	return n
}

// ClassifyTool handles classify_style.
type ClassifyTool struct{}

func NewClassifyTool() *ClassifyTool { return &ClassifyTool{} }

func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_style",
		mcp.WithDescription("Place people and production scores on the leadership grid."),
		mcp.WithNumber("people", mcp.Required(), mcp.Description("Concern for people, 1..7")),
		mcp.WithNumber("production", mcp.Required(), mcp.Description("Concern for production, 1..7")),
	)
}

func (t *ClassifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	people, err := ratingArg(req, "people")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	production, err := ratingArg(req, "production")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(scoring.Classify(people, production))), nil
}

// DetectTool handles detect_anomalies.
type DetectTool struct {
	catalog *i18n.Catalog
}

func NewDetectTool(catalog *i18n.Catalog) *DetectTool {
	return &DetectTool{catalog: catalog}
}

func (t *DetectTool) Definition() mcp.Tool {
	return mcp.NewTool("detect_anomalies",
		mcp.WithDescription("Flag inconsistent score patterns and grade their overall severity."),
		mcp.WithNumber("people", mcp.Required(), mcp.Description("People score, 1..7")),
		mcp.WithNumber("production", mcp.Required(), mcp.Description("Production score, 1..7")),
		mcp.WithNumber("candor", mcp.Required(), mcp.Description("Candor score, 1..7")),
		mcp.WithNumber("lmx", mcp.Required(), mcp.Description("Leader-member exchange score, 1..7")),
		mcp.WithString("language", mcp.Description("Response language: en or ko")),
	)
}

type detectOutput struct {
	Score           float64        `json:"anomaly_score"`
	Grade           string         `json:"grade"`
	Anomalies       []detectedItem `json:"anomalies"`
	Recommendations []string       `json:"recommendations"`
}

type detectedItem struct {
	Dimension string           `json:"dimension"`
	Score     float64          `json:"score"`
	Reason    string           `json:"reason"`
	Severity  anomaly.Severity `json:"severity"`
}

func (t *DetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := make(map[string]float64, 4)
	for _, key := range []string{"people", "production", "candor", "lmx"} {
		v, err := ratingArg(req, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		values[key] = v
	}
	lang := t.catalog.Resolve(req.GetString("language", ""))

	records := anomaly.DetectPatterns(values["people"], values["production"], values["candor"], values["lmx"])
	score, grade := anomaly.Score(records)
	items := make([]detectedItem, 0, len(records))
	for _, rec := range records {
		items = append(items, detectedItem{
			Dimension: rec.Dimension,
			Score:     rec.Magnitude,
			Reason:    t.catalog.Render(rec.Reason, lang),
			Severity:  rec.Severity,
		})
	}
	return jsonResult(detectOutput{
		Score:           score,
		Grade:           t.catalog.Translate(grade.MessageKey(), lang),
		Anomalies:       items,
		Recommendations: t.catalog.RenderAll(anomaly.Recommendations(records), lang),
	})
}

// QuestionsTool handles list_questions.
type QuestionsTool struct {
	questions *survey.Catalog
}

func NewQuestionsTool(questions *survey.Catalog) *QuestionsTool {
	return &QuestionsTool{questions: questions}
}

func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_questions",
		mcp.WithDescription("List the survey questions in the requested language."),
		mcp.WithString("language", mcp.Description("en or ko (default en)")),
	)
}

func (t *QuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.questions.Localized(req.GetString("language", "")))
}
