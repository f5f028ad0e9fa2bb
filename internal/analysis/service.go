package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/taejunjeon/leadership/internal/async"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/observability"
	"github.com/taejunjeon/leadership/internal/survey"
)

var (
	ErrQueueFull      = errors.New("analysis queue full")
	ErrServiceStopped = errors.New("analysis service stopped")
)

// Repository is the persistence the service needs.
type Repository interface {
	LatestSubmission(ctx context.Context, subjectID string) (survey.Record, error)
	SaveAnalysis(ctx context.Context, rec Record) error
	LatestAnalysis(ctx context.Context, subjectID string) (Record, error)
	AnalysisHistory(ctx context.Context, subjectID string, limit int) ([]Record, error)
}

// Observer is told about every stored analysis.
type Observer interface {
	AnalysisCompleted(ctx context.Context, rec Record)
}

// Recorder receives analysis metrics.
type Recorder interface {
	RecordAnalysis(ctx context.Context, provenance, status string, latency time.Duration)
	AdjustQueueDepth(ctx context.Context, delta int64)
}

// Job is a queued analysis.
type Job struct {
	SubjectID string
	Responses map[string]int
	Org       OrgContext
	RequestID string
}

// ServiceConfig sizes the worker pool.
type ServiceConfig struct {
	Workers    int           `mapstructure:"workers" yaml:"workers"`
	QueueSize  int           `mapstructure:"queue_size" yaml:"queue_size"`
	JobTimeout time.Duration `mapstructure:"job_timeout" yaml:"job_timeout"`
}

// Service runs analyses on a bounded background queue and answers history
// queries.
type Service struct {
	composer  *Composer
	repo      Repository
	cfg       ServiceConfig
	recorder  Recorder
	observers []Observer
	logger    logging.Logger

	queue    chan Job
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithRecorder wires metrics.
func WithRecorder(recorder Recorder) ServiceOption {
	return func(s *Service) { s.recorder = recorder }
}

// WithObserver registers an observer.
func WithObserver(observer Observer) ServiceOption {
	return func(s *Service) {
		if observer != nil {
			s.observers = append(s.observers, observer)
		}
	}
}

// WithServiceLogger overrides the component logger.
func WithServiceLogger(logger logging.Logger) ServiceOption {
	return func(s *Service) { s.logger = logging.OrNop(logger) }
}

// NewService builds a Service. Call Start before Enqueue.
func NewService(composer *Composer, repo Repository, cfg ServiceConfig, opts ...ServiceOption) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 2 * time.Minute
	}
	s := &Service{
		composer: composer,
		repo:     repo,
		cfg:      cfg,
		logger:   logging.NewComponentLogger("analysis.service"),
		queue:    make(chan Job, cfg.QueueSize),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start launches the workers.
func (s *Service) Start() {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		name := fmt.Sprintf("analysis.worker.%d", i)
		async.Go(s.logger, name, func() {
			defer s.wg.Done()
			s.work()
		})
	}
	s.logger.Info("analysis service started with %d workers (queue %d)", s.cfg.Workers, s.cfg.QueueSize)
}

func (s *Service) work() {
	for job := range s.queue {
		if s.recorder != nil {
			s.recorder.AdjustQueueDepth(context.Background(), -1)
		}
		s.runJob(job)
	}
}

func (s *Service) runJob(job Job) {
	defer async.Recover(s.logger, "analysis.job")
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()
	if job.RequestID != "" {
		ctx = observability.ContextWithRequestID(ctx, job.RequestID)
	}
	logger := logging.FromContext(ctx, s.logger)
	if _, err := s.Analyze(ctx, job); err != nil {
		logger.Error("analysis for %s failed: %v", job.SubjectID, err)
	}
}

// Stop closes the queue and waits for in-flight jobs or ctx.
func (s *Service) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		close(s.queue)
		s.mu.Unlock()
	})
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue schedules job without blocking.
func (s *Service) Enqueue(job Job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return ErrServiceStopped
	}
	select {
	case s.queue <- job:
		if s.recorder != nil {
			s.recorder.AdjustQueueDepth(context.Background(), 1)
		}
		return nil
	default:
		return ErrQueueFull
	}
}

// Trigger queues an analysis of the subject's latest submission.
func (s *Service) Trigger(ctx context.Context, subjectID string, org OrgContext) error {
	sub, err := s.repo.LatestSubmission(ctx, subjectID)
	if err != nil {
		return err
	}
	if org.Organization == "" {
		org.Organization = sub.Organization
	}
	if org.Department == "" {
		org.Department = sub.Department
	}
	return s.Enqueue(Job{
		SubjectID: subjectID,
		Responses: sub.Responses,
		Org:       org,
		RequestID: observability.RequestIDFromContext(ctx),
	})
}

// Analyze composes, stores and announces one analysis synchronously.
func (s *Service) Analyze(ctx context.Context, job Job) (Record, error) {
	started := time.Now()
	rec, err := s.composer.Compose(ctx, job.SubjectID, job.Responses, job.Org)
	if err != nil {
		s.record(ctx, "none", "error", started)
		return Record{}, err
	}
	if err := s.repo.SaveAnalysis(ctx, rec); err != nil {
		s.record(ctx, rec.Insights.Provider, "error", started)
		return Record{}, fmt.Errorf("save analysis: %w", err)
	}
	s.record(ctx, rec.Insights.Provider, "ok", started)
	logging.FromContext(ctx, s.logger).Info("analysis %s stored for %s (style=%s risk=%s provider=%s)",
		rec.ID, rec.SubjectID, rec.Style, rec.Risk, rec.Insights.Provider)

	for _, observer := range s.observers {
		observer.AnalysisCompleted(ctx, rec)
	}
	return rec, nil
}

func (s *Service) record(ctx context.Context, provenance, status string, started time.Time) {
	if s.recorder != nil {
		s.recorder.RecordAnalysis(ctx, provenance, status, time.Since(started))
	}
}

// Latest returns the newest analysis of a subject.
func (s *Service) Latest(ctx context.Context, subjectID string) (Record, error) {
	return s.repo.LatestAnalysis(ctx, subjectID)
}

// History returns up to limit analyses, newest first.
func (s *Service) History(ctx context.Context, subjectID string, limit int) ([]Record, error) {
	return s.repo.AnalysisHistory(ctx, subjectID, limit)
}

// Quick returns the dashboard view of the latest analysis.
func (s *Service) Quick(ctx context.Context, subjectID string) (QuickView, error) {
	rec, err := s.Latest(ctx, subjectID)
	if err != nil {
		return QuickView{}, err
	}
	return Quick(rec), nil
}

// Temporal evaluates the subject's whole history for temporal anomalies.
func (s *Service) Temporal(ctx context.Context, subjectID string) (TemporalReport, error) {
	history, err := s.repo.AnalysisHistory(ctx, subjectID, 0)
	if err != nil {
		return TemporalReport{}, err
	}
	return Temporal(subjectID, history), nil
}
