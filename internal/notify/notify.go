// Package notify raises alerts for high-risk analyses and critical temporal
// anomalies, and mirrors every stored analysis onto the realtime feed.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/anomaly"
	"github.com/taejunjeon/leadership/internal/events"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
)

// Alert kinds.
const (
	KindHighRisk        = "high_risk"
	KindCriticalAnomaly = "critical_anomaly"
)

// Alert is one notification.
type Alert struct {
	Kind      string
	SubjectID string
	Title     string
	Message   string
	Fields    map[string]string
	At        time.Time
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Publisher receives realtime events.
type Publisher interface {
	Publish(e events.Event)
}

// LogNotifier writes alerts to the log.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier builds a LogNotifier.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("notify")
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, alert Alert) error {
	n.logger.Warn("[%s] %s: %s (subject=%s)", alert.Kind, alert.Title, alert.Message, alert.SubjectID)
	return nil
}

// Dispatcher routes analysis outcomes to a Notifier and a Publisher.
type Dispatcher struct {
	notifier  Notifier
	publisher Publisher
	logger    logging.Logger
	now       func() time.Time
}

var _ analysis.Observer = (*Dispatcher)(nil)

// NewDispatcher builds a Dispatcher; either sink may be nil.
func NewDispatcher(notifier Notifier, publisher Publisher, logger logging.Logger) *Dispatcher {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("notify.dispatcher")
	}
	return &Dispatcher{notifier: notifier, publisher: publisher, logger: logger, now: time.Now}
}

// AnalysisCompleted publishes the analysis and alerts on high risk.
func (d *Dispatcher) AnalysisCompleted(ctx context.Context, rec analysis.Record) {
	d.publish(events.Event{
		Type:      events.TypeAnalysisCompleted,
		SubjectID: rec.SubjectID,
		Data: map[string]any{
			"analysis_id": rec.ID,
			"style":       rec.Style,
			"risk":        rec.Risk,
			"provider":    rec.Insights.Provider,
		},
	})
	if rec.Risk != scoring.RiskHigh {
		return
	}
	d.publish(events.Event{Type: events.TypeHighRisk, SubjectID: rec.SubjectID, Data: map[string]any{"analysis_id": rec.ID}})
	d.notify(ctx, Alert{
		Kind:      KindHighRisk,
		SubjectID: rec.SubjectID,
		Title:     "High leadership risk",
		Message:   fmt.Sprintf("Analysis %s rated %s risk (style %s).", rec.ID, rec.Risk, rec.Style),
		Fields: map[string]string{
			"Machiavellianism": fmt.Sprintf("%.2f", rec.Dimensions.Machiavellianism),
			"Narcissism":       fmt.Sprintf("%.2f", rec.Dimensions.Narcissism),
			"Psychopathy":      fmt.Sprintf("%.2f", rec.Dimensions.Psychopathy),
		},
	})
}

// TemporalEvaluated alerts when the report grade is critical.
func (d *Dispatcher) TemporalEvaluated(ctx context.Context, report analysis.TemporalReport) {
	if report.Grade != anomaly.GradeCritical {
		return
	}
	d.publish(events.Event{
		Type:      events.TypeCriticalAnomaly,
		SubjectID: report.SubjectID,
		Data:      map[string]any{"anomaly_score": report.Score, "anomalies": len(report.Anomalies)},
	})
	fields := make(map[string]string, len(report.Anomalies))
	for _, rec := range report.Anomalies {
		fields[rec.Dimension] = fmt.Sprintf("%s (%.2f)", rec.Severity, rec.Magnitude)
	}
	d.notify(ctx, Alert{
		Kind:      KindCriticalAnomaly,
		SubjectID: report.SubjectID,
		Title:     "Critical score movement",
		Message:   fmt.Sprintf("Anomaly score %.1f across %d analyses.", report.Score, report.Analyses),
		Fields:    fields,
	})
}

func (d *Dispatcher) publish(e events.Event) {
	if d.publisher != nil {
		d.publisher.Publish(e)
	}
}

func (d *Dispatcher) notify(ctx context.Context, alert Alert) {
	if d.notifier == nil {
		return
	}
	alert.At = d.now().UTC()
	if err := d.notifier.Notify(ctx, alert); err != nil {
		logging.FromContext(ctx, d.logger).Warn("%s alert for %s not delivered: %v", alert.Kind, alert.SubjectID, err)
	}
}
