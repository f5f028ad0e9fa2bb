package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/scoring"
)

// PDF pages are English only; the core fonts carry no Hangul glyphs.
const pdfLanguage = i18n.English

// Profile is the cover-page identity of a report.
type Profile struct {
	Name         string
	Organization string
	Department   string
	Position     string
}

// Document is a rendered PDF.
type Document struct {
	Filename string
	Content  []byte
}

type rgb struct{ r, g, b int }

var (
	colorTitle  = rgb{44, 62, 80}
	colorAccent = rgb{52, 152, 219}
	colorMuted  = rgb{127, 140, 141}
	riskColors  = map[scoring.RiskLevel]rgb{
		scoring.RiskLow:    {39, 174, 96},
		scoring.RiskMedium: {243, 156, 18},
		scoring.RiskHigh:   {192, 57, 43},
	}
)

type scoreRow struct {
	label string
	value float64
}

func scoreRows(d scoring.Dimensions) []scoreRow {
	return []scoreRow{
		{"People orientation", d.People},
		{"Production orientation", d.Production},
		{"Caring", d.Care},
		{"Challenging", d.Challenge},
		{"LMX quality", d.LMX},
	}
}

// EvaluationKey maps a 1-7 score to its evaluation label key.
func EvaluationKey(score float64) string {
	switch {
	case score >= 6:
		return i18n.KeyEvalExcellent
	case score >= 5:
		return i18n.KeyEvalGood
	case score >= 4:
		return i18n.KeyEvalFair
	case score >= 3:
		return i18n.KeyEvalAverage
	}
	return i18n.KeyEvalNeedsWork
}

// Filename is the download name for subject's report generated at now.
func Filename(name string, now time.Time) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "subject"
	}
	return fmt.Sprintf("leadership_report_%s_%s.pdf", clean, now.Format("20060102"))
}

// RenderPDF lays out the five report pages for rec.
func RenderPDF(rec analysis.Record, profile Profile, rules *analysis.RuleBased, catalog *i18n.Catalog, now time.Time) (Document, error) {
	if catalog == nil {
		catalog = i18n.NewCatalog(i18n.English)
	}
	if rules == nil {
		rules = analysis.NewRuleBased(catalog)
	}
	insights := rec.Insights
	if !latin1(insights) {
		insights = rules.Insights(analysis.NarrativeRequest{
			SubjectID:  rec.SubjectID,
			Dimensions: rec.Dimensions,
			Style:      rec.Style,
			Risk:       rec.Risk,
			Org:        analysis.OrgContext{Language: pdfLanguage},
		})
	}

	r := &renderer{
		pdf:     gofpdf.New("P", "mm", "A4", ""),
		catalog: catalog,
	}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetTitle(r.t(i18n.KeyReportTitle), false)
	r.pdf.SetAuthor("leadership", false)
	r.pdf.SetMargins(20, 20, 20)
	r.pdf.SetAutoPageBreak(true, 20)

	r.cover(rec, profile, now)
	r.summary(rec)
	r.details(insights)
	r.visualization(rec.Dimensions)
	r.plan(rec.Style, insights, rules)

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("render pdf: %w", err)
	}
	name := profile.Name
	if name == "" {
		name = rec.SubjectID
	}
	return Document{Filename: Filename(name, now), Content: buf.Bytes()}, nil
}

func latin1(in analysis.Insights) bool {
	texts := append([]string{in.StyleDescription, in.Summary}, in.Strengths...)
	texts = append(texts, in.Weaknesses...)
	texts = append(texts, in.Improvements...)
	texts = append(texts, in.DevelopmentPlan...)
	for _, s := range texts {
		for _, c := range s {
			if c > unicode.MaxLatin1 {
				return false
			}
		}
	}
	return true
}

type renderer struct {
	pdf     *gofpdf.Fpdf
	catalog *i18n.Catalog
	tr      func(string) string
}

func (r *renderer) t(key string) string { return r.catalog.Translate(key, pdfLanguage) }

func (r *renderer) color(c rgb) { r.pdf.SetTextColor(c.r, c.g, c.b) }

func (r *renderer) heading(text string) {
	r.pdf.SetFont("Helvetica", "B", 18)
	r.color(colorTitle)
	r.pdf.CellFormat(0, 12, r.tr(text), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
}

func (r *renderer) subheading(text string) {
	r.pdf.SetFont("Helvetica", "B", 13)
	r.color(colorAccent)
	r.pdf.CellFormat(0, 9, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *renderer) body(text string) {
	r.pdf.SetFont("Helvetica", "", 11)
	r.color(colorTitle)
	r.pdf.MultiCell(0, 6, r.tr(text), "", "L", false)
}

func (r *renderer) bullets(items []string) {
	if len(items) == 0 {
		r.body("-")
		return
	}
	for _, item := range items {
		r.body("- " + item)
	}
	r.pdf.Ln(2)
}

func (r *renderer) cover(rec analysis.Record, p Profile, now time.Time) {
	r.pdf.AddPage()
	r.pdf.Ln(40)
	r.pdf.SetFont("Helvetica", "B", 26)
	r.color(colorTitle)
	r.pdf.CellFormat(0, 14, r.tr(r.t(i18n.KeyReportTitle)), "", 1, "C", false, 0, "")
	r.pdf.Ln(20)

	org := p.Organization
	if org == "" {
		org = rec.Organization
	}
	dept := p.Department
	if dept == "" {
		dept = rec.Department
	}
	rows := [][2]string{
		{"Name", orDash(p.Name)},
		{"Organization", orDash(org)},
		{"Department", orDash(dept)},
		{"Position", orDash(p.Position)},
		{"Analysis date", rec.CreatedAt.Format("2006-01-02")},
		{"Report date", now.Format("2006-01-02")},
	}
	r.pdf.SetFont("Helvetica", "", 12)
	r.color(colorTitle)
	for _, row := range rows {
		r.pdf.SetX(45)
		r.pdf.SetFont("Helvetica", "B", 12)
		r.pdf.CellFormat(45, 9, row[0], "1", 0, "L", false, 0, "")
		r.pdf.SetFont("Helvetica", "", 12)
		r.pdf.CellFormat(75, 9, r.tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

func (r *renderer) summary(rec analysis.Record) {
	r.pdf.AddPage()
	r.heading(r.t(i18n.KeyReportSummary))

	r.subheading("Leadership style")
	r.body(styleTitle(rec.Style))
	r.pdf.Ln(2)

	r.subheading("Risk level")
	r.pdf.SetFont("Helvetica", "B", 12)
	r.color(riskColors[rec.Risk])
	r.pdf.CellFormat(0, 8, strings.ToUpper(string(rec.Risk)), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)

	r.subheading("Scores")
	r.pdf.SetFillColor(236, 240, 241)
	r.pdf.SetFont("Helvetica", "B", 11)
	r.color(colorTitle)
	r.pdf.CellFormat(80, 8, "Dimension", "1", 0, "L", true, 0, "")
	r.pdf.CellFormat(30, 8, "Score", "1", 0, "C", true, 0, "")
	r.pdf.CellFormat(50, 8, "Evaluation", "1", 1, "C", true, 0, "")
	r.pdf.SetFont("Helvetica", "", 11)
	for _, row := range scoreRows(rec.Dimensions) {
		r.pdf.CellFormat(80, 8, row.label, "1", 0, "L", false, 0, "")
		r.pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", row.value), "1", 0, "C", false, 0, "")
		r.pdf.CellFormat(50, 8, r.t(EvaluationKey(row.value)), "1", 1, "C", false, 0, "")
	}
}

func (r *renderer) details(in analysis.Insights) {
	r.pdf.AddPage()
	r.heading(r.t(i18n.KeyReportDetails))
	if in.StyleDescription != "" {
		r.body(in.StyleDescription)
		r.pdf.Ln(3)
	}
	r.subheading(r.t(i18n.KeyReportStrengths))
	r.bullets(in.Strengths)
	r.subheading(r.t(i18n.KeyReportWeaknesses))
	r.bullets(in.Weaknesses)
	r.subheading(r.t(i18n.KeyReportImprove))
	r.bullets(in.Improvements)
}

func (r *renderer) visualization(d scoring.Dimensions) {
	r.pdf.AddPage()
	r.heading("Score Profile")
	rows := scoreRows(d)

	// Horizontal bars on the 1-7 scale.
	const left, labelW, maxW, barH = 20.0, 55.0, 100.0, 7.0
	y := r.pdf.GetY()
	r.pdf.SetFont("Helvetica", "", 10)
	for i, row := range rows {
		top := y + float64(i)*(barH+4)
		r.color(colorTitle)
		r.pdf.SetXY(left, top)
		r.pdf.CellFormat(labelW, barH, row.label, "", 0, "L", false, 0, "")
		r.pdf.SetFillColor(236, 240, 241)
		r.pdf.Rect(left+labelW, top, maxW, barH, "F")
		r.pdf.SetFillColor(colorAccent.r, colorAccent.g, colorAccent.b)
		r.pdf.Rect(left+labelW, top, maxW*clamp01(row.value/7), barH, "F")
		r.pdf.SetXY(left+labelW+maxW+2, top)
		r.pdf.CellFormat(15, barH, fmt.Sprintf("%.1f", row.value), "", 0, "L", false, 0, "")
	}

	// Radar polygon.
	cx, cy, radius := 105.0, y+float64(len(rows))*(barH+4)+55, 40.0
	n := len(rows)
	vertex := func(i int, scale float64) gofpdf.PointType {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		return gofpdf.PointType{X: cx + radius*scale*math.Cos(angle), Y: cy + radius*scale*math.Sin(angle)}
	}
	r.pdf.SetLineWidth(0.2)
	r.pdf.SetDrawColor(colorMuted.r, colorMuted.g, colorMuted.b)
	for ring := 1; ring <= 7; ring++ {
		pts := make([]gofpdf.PointType, n)
		for i := range pts {
			pts[i] = vertex(i, float64(ring)/7)
		}
		r.pdf.Polygon(pts, "D")
	}
	pts := make([]gofpdf.PointType, n)
	for i, row := range rows {
		pts[i] = vertex(i, clamp01(row.value/7))
		outer := vertex(i, 1.12)
		r.pdf.SetXY(outer.X-20, outer.Y-3)
		r.color(colorTitle)
		r.pdf.CellFormat(40, 6, row.label, "", 0, "C", false, 0, "")
	}
	r.pdf.SetAlpha(0.4, "Normal")
	r.pdf.SetFillColor(colorAccent.r, colorAccent.g, colorAccent.b)
	r.pdf.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
	r.pdf.SetLineWidth(0.6)
	r.pdf.Polygon(pts, "FD")
	r.pdf.SetAlpha(1, "Normal")
}

func (r *renderer) plan(style scoring.Style, in analysis.Insights, rules *analysis.RuleBased) {
	r.pdf.AddPage()
	r.heading(r.t(i18n.KeyReportPlan))
	r.subheading(styleTitle(style))
	r.body(rules.StyleDescription(style, pdfLanguage))
	r.pdf.Ln(3)
	for i, step := range in.DevelopmentPlan {
		r.body(fmt.Sprintf("%d. %s", i+1, step))
	}
	r.pdf.Ln(8)
	r.pdf.SetFont("Helvetica", "I", 11)
	r.color(colorMuted)
	r.pdf.MultiCell(0, 6, r.tr(r.t(i18n.KeyReportClosing)), "", "L", false)
}

func styleTitle(style scoring.Style) string {
	if style == "" {
		return "-"
	}
	return string(style)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
