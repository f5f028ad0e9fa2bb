package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/anomaly"
	lerrors "github.com/taejunjeon/leadership/internal/errors"
	"github.com/taejunjeon/leadership/internal/events"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, alert Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return r.err
}

type recordingPublisher struct{ events []events.Event }

func (r *recordingPublisher) Publish(e events.Event) { r.events = append(r.events, e) }

func newDispatcher(n Notifier, p Publisher) *Dispatcher {
	d := NewDispatcher(n, p, logging.Nop())
	d.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return d
}

func TestDispatcherPublishesEveryAnalysis(t *testing.T) {
	n, p := &recordingNotifier{}, &recordingPublisher{}
	newDispatcher(n, p).AnalysisCompleted(context.Background(), analysis.Record{ID: "a1", SubjectID: "alice", Risk: scoring.RiskLow})

	require.Len(t, p.events, 1)
	assert.Equal(t, events.TypeAnalysisCompleted, p.events[0].Type)
	assert.Empty(t, n.alerts)
}

func TestDispatcherAlertsOnHighRisk(t *testing.T) {
	n, p := &recordingNotifier{}, &recordingPublisher{}
	rec := analysis.Record{ID: "a1", SubjectID: "alice", Risk: scoring.RiskHigh, Style: scoring.StyleTaskManager,
		Dimensions: scoring.Dimensions{Machiavellianism: 4.5}}
	newDispatcher(n, p).AnalysisCompleted(context.Background(), rec)

	require.Len(t, p.events, 2)
	assert.Equal(t, events.TypeHighRisk, p.events[1].Type)
	require.Len(t, n.alerts, 1)
	assert.Equal(t, KindHighRisk, n.alerts[0].Kind)
	assert.Equal(t, "4.50", n.alerts[0].Fields["Machiavellianism"])
	assert.False(t, n.alerts[0].At.IsZero())
}

func TestDispatcherToleratesNotifierFailureAndNilSinks(t *testing.T) {
	n := &recordingNotifier{err: errors.New("offline")}
	rec := analysis.Record{ID: "a1", SubjectID: "alice", Risk: scoring.RiskHigh}
	newDispatcher(n, nil).AnalysisCompleted(context.Background(), rec)
	assert.Len(t, n.alerts, 1)

	assert.NotPanics(t, func() { newDispatcher(nil, nil).AnalysisCompleted(context.Background(), rec) })
}

func TestDispatcherTemporalOnlyCritical(t *testing.T) {
	n, p := &recordingNotifier{}, &recordingPublisher{}
	d := newDispatcher(n, p)

	d.TemporalEvaluated(context.Background(), analysis.TemporalReport{SubjectID: "alice", Grade: anomaly.GradeWarning})
	assert.Empty(t, n.alerts)

	d.TemporalEvaluated(context.Background(), analysis.TemporalReport{
		SubjectID: "alice",
		Grade:     anomaly.GradeCritical,
		Score:     75,
		Analyses:  4,
		Anomalies: []anomaly.Record{{Dimension: anomaly.TagYoyoPattern, Magnitude: 3, Severity: anomaly.SeverityMedium}},
	})
	require.Len(t, n.alerts, 1)
	assert.Equal(t, KindCriticalAnomaly, n.alerts[0].Kind)
	assert.Equal(t, "medium (3.00)", n.alerts[0].Fields[anomaly.TagYoyoPattern])
	require.Len(t, p.events, 1)
	assert.Equal(t, events.TypeCriticalAnomaly, p.events[0].Type)
}

type fakeSession struct {
	channel string
	embed   *discordgo.MessageEmbed
	err     error
}

func (f *fakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel, f.embed = channelID, embed
	return &discordgo.Message{}, f.err
}

func TestDiscordNotifierSendsEmbed(t *testing.T) {
	session := &fakeSession{}
	n := &DiscordNotifier{session: session, channelID: "chan"}

	err := n.Notify(context.Background(), Alert{
		Kind: KindCriticalAnomaly, SubjectID: "alice", Title: "t", Message: "m",
		Fields: map[string]string{"b": "2", "a": "1"},
		At:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "chan", session.channel)
	assert.Equal(t, colorCritical, session.embed.Color)
	require.Len(t, session.embed.Fields, 3)
	assert.Equal(t, "a", session.embed.Fields[1].Name)
	assert.Equal(t, "2026-05-01T00:00:00Z", session.embed.Timestamp)

	session.err = errors.New("429")
	assert.True(t, lerrors.IsTransient(n.Notify(context.Background(), Alert{})))
}

func TestDiscordConfig(t *testing.T) {
	assert.False(t, DiscordConfig{Token: "x"}.Enabled())
	_, err := NewDiscordNotifier(DiscordConfig{})
	assert.Error(t, err)

	n, err := NewDiscordNotifier(DiscordConfig{Token: "x", ChannelID: "y"})
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(nil).Notify(context.Background(), Alert{Kind: KindHighRisk}))
}
