package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

// decodeResponses accepts a full submission or a bare item to rating map.
func decodeResponses(data []byte) (map[string]int, error) {
	var sub survey.Submission
	if err := json.Unmarshal(data, &sub); err == nil && len(sub.Responses) > 0 {
		return sub.RawResponses(), nil
	}
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("input is neither a submission nor an item map: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("no responses in input")
	}
	out := make(map[string]int, len(raw))
	for id, v := range raw {
		out[survey.NormalizeID(id)] = v
	}
	return out, nil
}

type scoreReport struct {
	Dimensions      scoring.Dimensions `json:"dimensions"`
	Style           scoring.Style      `json:"style"`
	Risk            scoring.RiskLevel  `json:"risk"`
	AnomalyScore    float64            `json:"anomaly_score"`
	Anomalies       []string           `json:"anomalies"`
	Recommendations []string           `json:"recommendations"`
}

func buildScoreReport(raw map[string]int, catalog *i18n.Catalog, lang string) scoreReport {
	d := scoring.Calculate(raw)
	records := anomaly.DetectPatterns(d.People, d.Production, d.Candor(), d.LMX)
	score, _ := anomaly.Score(records)
	reasons := make([]string, 0, len(records))
	for _, rec := range records {
		reasons = append(reasons, catalog.Render(rec.Reason, lang))
	}
	return scoreReport{
		Dimensions:      d,
		Style:           scoring.Classify(d.People, d.Production),
		Risk:            scoring.AssessRisk(d),
		AnomalyScore:    score,
		Anomalies:       reasons,
		Recommendations: catalog.RenderAll(anomaly.Recommendations(records), lang),
	}
}

func newScoreCommand(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score survey responses offline",
		Long:  "Score a submission JSON or an item-to-rating map read from file or stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			raw, err := decodeResponses(data)
			if err != nil {
				return err
			}
			catalog := i18n.NewCatalog(i18n.English)
			lang := catalog.Resolve(flags.language)
			rep := buildScoreReport(raw, catalog, lang)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			printScoreReport(out, rep, catalog, lang)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printScoreReport(w io.Writer, rep scoreReport, catalog *i18n.Catalog, lang string) {
	d := rep.Dimensions
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, bold("Dimension")+"\t"+bold("Score"))
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"people", d.People},
		{"production", d.Production},
		{"care", d.Care},
		{"challenge", d.Challenge},
		{"candor", d.Candor()},
		{"lmx", d.LMX},
		{"machiavellianism", d.Machiavellianism},
		{"narcissism", d.Narcissism},
		{"psychopathy", d.Psychopathy},
	} {
		fmt.Fprintf(tw, "%s\t%.2f\n", row.name, row.value)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\n%s %s (%s)\n", bold("Style:"), cyan(string(rep.Style)),
		catalog.Translate(i18n.StyleKey(string(rep.Style)), lang))
	fmt.Fprintf(w, "%s %s\n", bold("Risk:"), riskColor(rep.Risk))
	fmt.Fprintf(w, "%s %.1f\n", bold("Anomaly score:"), rep.AnomalyScore)
	for _, reason := range rep.Anomalies {
		fmt.Fprintf(w, "  %s %s\n", yellow("!"), reason)
	}
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(w, "  %s %s\n", green("→"), rec)
	}
}

func riskColor(risk scoring.RiskLevel) string {
	switch risk {
	case scoring.RiskHigh:
		return red(string(risk))
	case scoring.RiskMedium:
		return yellow(string(risk))
	default:
		return green(string(risk))
	}
}
