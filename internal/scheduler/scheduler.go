// Package scheduler runs the periodic temporal anomaly sweep over recently
// analysed subjects.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/logging"
)

const (
	DefaultSweep       = "0 3 * * *"
	DefaultLookback    = 24 * time.Hour
	defaultConcurrency = 4
	defaultSweepTime   = 10 * time.Minute
)

// Config holds scheduler configuration.
type Config struct {
	Enabled bool
	// Sweep is a five-field cron expression.
	Sweep    string
	Lookback time.Duration
	// Concurrency bounds simultaneous subject evaluations.
	Concurrency int
	// Timeout bounds one whole sweep.
	Timeout time.Duration
	// ConcurrencyPolicy is "skip" (default) or "delay" for overlapping runs.
	ConcurrencyPolicy string
}

// SubjectSource lists subjects with recent analyses.
type SubjectSource interface {
	RecentSubjects(ctx context.Context, since time.Time) ([]string, error)
}

// Evaluator builds a subject's temporal report.
type Evaluator interface {
	Temporal(ctx context.Context, subjectID string) (analysis.TemporalReport, error)
}

// Sink receives every evaluated report.
type Sink interface {
	TemporalEvaluated(ctx context.Context, report analysis.TemporalReport)
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Subjects  int
	Evaluated int
	Failed    int
	Flagged   int
}

// Scheduler owns the cron runner for the sweep.
type Scheduler struct {
	cron      *cron.Cron
	subjects  SubjectSource
	evaluator Evaluator
	sink      Sink
	config    Config
	logger    logging.Logger
	now       func() time.Time

	mu       sync.Mutex
	entryID  cron.EntryID
	started  bool
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a Scheduler. A nil sink discards reports.
func New(cfg Config, subjects SubjectSource, evaluator Evaluator, sink Sink, logger logging.Logger) *Scheduler {
	logger = logging.OrNop(logger)
	if strings.TrimSpace(cfg.Sweep) == "" {
		cfg.Sweep = DefaultSweep
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSweepTime
	}
	return &Scheduler{
		cron:      newCron(cfg, logger),
		subjects:  subjects,
		evaluator: evaluator,
		sink:      sink,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
		stopped:   make(chan struct{}),
	}
}

func newCron(cfg Config, logger logging.Logger) *cron.Cron {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	var wrapper cron.JobWrapper
	switch policy := strings.ToLower(strings.TrimSpace(cfg.ConcurrencyPolicy)); policy {
	case "delay":
		wrapper = cron.DelayIfStillRunning(cron.DefaultLogger)
	case "skip", "":
		wrapper = cron.SkipIfStillRunning(cron.DefaultLogger)
	default:
		logger.Warn("Scheduler: unknown concurrency policy %q, defaulting to skip", policy)
		wrapper = cron.SkipIfStillRunning(cron.DefaultLogger)
	}
	return cron.New(cron.WithParser(parser), cron.WithChain(wrapper))
}

// Start registers the sweep and starts cron. The scheduler stops when ctx
// is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler disabled by config")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	entryID, err := s.cron.AddFunc(s.config.Sweep, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Warn("Scheduler: sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.config.Sweep, err)
	}
	s.entryID = entryID
	s.started = true
	s.cron.Start()
	s.logger.Info("Scheduler started (sweep=%s lookback=%s)", s.config.Sweep, s.config.Lookback)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Next reports the next scheduled sweep, zero when not started.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Stop waits for a running sweep and stops cron. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Scheduler stopping...")
		<-s.cron.Stop().Done()
		close(s.stopped)
		s.logger.Info("Scheduler stopped")
	})
}

// Done is closed once the scheduler has fully stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.stopped
}

// Sweep evaluates every subject analysed within the lookback window. A
// failing subject is logged and counted; only a listing failure aborts.
func (s *Scheduler) Sweep(ctx context.Context) (SweepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	since := s.now().Add(-s.config.Lookback)
	subjects, err := s.subjects.RecentSubjects(ctx, since)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list recent subjects: %w", err)
	}

	var (
		mu     sync.Mutex
		result = SweepResult{Subjects: len(subjects)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, subject := range subjects {
		g.Go(func() error {
			report, err := s.evaluator.Temporal(gctx, subject)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				s.logger.Warn("Scheduler: temporal evaluation for %s failed: %v", subject, err)
				return nil
			}
			result.Evaluated++
			if len(report.Anomalies) > 0 {
				result.Flagged++
			}
			if s.sink != nil {
				s.sink.TemporalEvaluated(gctx, report)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Scheduler: sweep evaluated %d/%d subjects (%d flagged, %d failed)",
		result.Evaluated, result.Subjects, result.Flagged, result.Failed)
	return result, ctx.Err()
}
