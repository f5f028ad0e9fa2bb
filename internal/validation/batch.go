package validation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/survey"
)

// MaxBatchSize is the largest batch the API accepts.
const MaxBatchSize = 100

// Item status values.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// BatchItem is one entry of a batch, at its input index.
type BatchItem struct {
	Index      int     `json:"index"`
	Email      string  `json:"email"`
	Status     string  `json:"status"`
	Validation *Result `json:"validation,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// BatchResult aggregates a batch run. Results mirror input order.
type BatchResult struct {
	Total       int         `json:"total"`
	Valid       int         `json:"valid"`
	Invalid     int         `json:"invalid"`
	Errors      int         `json:"errors"`
	SuccessRate float64     `json:"success_rate"`
	Results     []BatchItem `json:"results"`
}

// ValidateBatch validates every submission concurrently with a bounded
// number of workers. Duplicate detection is always off for batch items.
func (v *Validator) ValidateBatch(ctx context.Context, subs []survey.Submission, opts Options) BatchResult {
	opts.CheckDuplicates = false
	items := make([]BatchItem, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.BatchConcurrency)
	for i := range subs {
		i := i
		g.Go(func() (err error) {
			item := BatchItem{Index: i, Email: subs[i].Email}
			defer func() {
				if r := recover(); r != nil {
					item.Status = StatusError
					item.Validation = nil
					item.Error = fmt.Sprintf("validation panicked: %v", r)
				}
				items[i] = item
			}()
			if err := gctx.Err(); err != nil {
				item.Status = StatusError
				item.Error = err.Error()
				return nil
			}
			res := v.Validate(gctx, subs[i], opts)
			item.Validation = &res
			item.Status = StatusInvalid
			if res.IsValid {
				item.Status = StatusValid
			}
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Total: len(subs), Results: items}
	for _, item := range items {
		switch item.Status {
		case StatusValid:
			out.Valid++
		case StatusInvalid:
			out.Invalid++
		default:
			out.Errors++
		}
	}
	if out.Total > 0 {
		out.SuccessRate = float64(out.Valid) / float64(out.Total)
	}
	return out
}

// DimensionStats summarises valid batch items per section.
type DimensionStats struct {
	People     []float64 `json:"people"`
	Production []float64 `json:"production"`
	Candor     []float64 `json:"candor"`
	LMX        []float64 `json:"lmx"`
}

// BatchReport is the stored form of a batch run.
type BatchReport struct {
	ReportID       string         `json:"report_id"`
	OwnerID        string         `json:"user_id"`
	CreatedAt      time.Time      `json:"created_at"`
	Summary        BatchSummary   `json:"summary"`
	Results        []BatchItem    `json:"results"`
	DimensionStats DimensionStats `json:"dimension_stats"`
}

// BatchSummary is the headline of a BatchReport.
type BatchSummary struct {
	Total       int     `json:"total"`
	Valid       int     `json:"valid"`
	Invalid     int     `json:"invalid"`
	SuccessRate float64 `json:"success_rate"`
}

// NewBatchReport collects per-section scores of the valid submissions.
func NewBatchReport(reportID, ownerID string, subs []survey.Submission, batch BatchResult, now time.Time) BatchReport {
	stats := DimensionStats{People: []float64{}, Production: []float64{}, Candor: []float64{}, LMX: []float64{}}
	for _, item := range batch.Results {
		if item.Status != StatusValid || item.Index >= len(subs) {
			continue
		}
		d := scoring.Calculate(subs[item.Index].RawResponses())
		stats.People = append(stats.People, d.People)
		stats.Production = append(stats.Production, d.Production)
		stats.Candor = append(stats.Candor, d.Candor())
		stats.LMX = append(stats.LMX, d.LMX)
	}
	return BatchReport{
		ReportID:  reportID,
		OwnerID:   ownerID,
		CreatedAt: now.UTC(),
		Summary: BatchSummary{
			Total:       batch.Total,
			Valid:       batch.Valid,
			Invalid:     batch.Invalid,
			SuccessRate: batch.SuccessRate,
		},
		Results:        batch.Results,
		DimensionStats: stats,
	}
}
