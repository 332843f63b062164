package processor_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/oracle"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/processor"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/registry"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

type fakeSource struct {
	messages map[string][]consumer.Message

	mu    sync.Mutex
	acked []string
}

func (f *fakeSource) ConsumeStream(ctx context.Context, streamKey string) (<-chan consumer.Message, <-chan error) {
	msgs := f.messages[streamKey]
	messageCh := make(chan consumer.Message, len(msgs))
	errorCh := make(chan error)
	for _, m := range msgs {
		messageCh <- m
	}
	close(messageCh)
	close(errorCh)
	return messageCh, errorCh
}

func (f *fakeSource) AckMessage(ctx context.Context, streamKey, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, messageID)
	return nil
}

type fakeSink struct {
	mu        sync.Mutex
	envelopes []*models.AnalysisEnvelope
	err       error
}

func (f *fakeSink) Publish(ctx context.Context, envelope *models.AnalysisEnvelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.envelopes = append(f.envelopes, envelope)
	return nil
}

func newProcessor(t *testing.T, source processor.SnapshotSource, sink processor.EnvelopeSink) *processor.Processor {
	t.Helper()

	reg, err := registry.NewDefault()
	if err != nil {
		t.Fatalf("NewDefault() error: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return processor.NewProcessor(
		source,
		sink,
		oracle.NewEngine(reg, models.DefaultOptions()),
		logger,
		[]string{"football", "basketball"},
		func(sport string) string { return "fixtures.snapshot." + sport },
	)
}

func footballSnapshot(id string) models.Snapshot {
	return models.Snapshot{
		FixtureID: id,
		Sport:     "football",
		Quotes: []models.Quote{
			{Market: "1x2", Selection: "Home", Odds: 2.05},
			{Market: "1x2", Selection: "Draw", Odds: 4.28},
			{Market: "1x2", Selection: "Away", Odds: 3.34},
		},
	}
}

func TestProcessor_Start(t *testing.T) {
	source := &fakeSource{messages: map[string][]consumer.Message{
		"fixtures.snapshot.football": {
			{ID: "1-0", StreamKey: "fixtures.snapshot.football", Snapshot: footballSnapshot("fx-1")},
			{ID: "2-0", StreamKey: "fixtures.snapshot.football", Snapshot: models.Snapshot{
				FixtureID: "fx-2",
				Sport:     "football",
				Quotes:    []models.Quote{{Market: "btts", Selection: "Yes", Odds: 1.8}, {Market: "btts", Selection: "No", Odds: 2.0}},
			}},
		},
	}}
	sink := &fakeSink{}
	proc := newProcessor(t, source, sink)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := proc.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if len(sink.envelopes) != 2 {
		t.Fatalf("published %d envelopes, want 2", len(sink.envelopes))
	}
	if len(source.acked) != 2 {
		t.Errorf("acked %d messages, want 2", len(source.acked))
	}

	ok, failed := sink.envelopes[0], sink.envelopes[1]
	if ok.Result == nil || ok.Error != "" || ok.AnalysisID == "" || ok.AnalyzedAt.IsZero() {
		t.Errorf("successful envelope malformed: %+v", ok)
	}
	if failed.Result != nil || len(failed.MissingOutcomes) != 3 {
		t.Errorf("insufficient envelope malformed: %+v", failed)
	}

	m := proc.GetMetrics()
	if m.Processed != 1 || m.Insufficient != 1 || m.Failed != 0 {
		t.Errorf("metrics = %+v, want 1 processed and 1 insufficient", m)
	}
}

func TestProcessor_ProcessMessage(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   models.Snapshot
		sinkErr    error
		wantErr    bool
		wantFailed int64
	}{
		{
			name:     "analyzed",
			snapshot: footballSnapshot("fx-1"),
		},
		{
			name:       "unknown sport",
			snapshot:   models.Snapshot{FixtureID: "fx-3", Sport: "cricket"},
			wantFailed: 1,
		},
		{
			name:       "publish failure",
			snapshot:   footballSnapshot("fx-4"),
			sinkErr:    errors.New("redis down"),
			wantErr:    true,
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{err: tt.sinkErr}
			proc := newProcessor(t, &fakeSource{}, sink)

			err := proc.ProcessMessage(context.Background(), consumer.Message{ID: "1-0", Snapshot: tt.snapshot})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ProcessMessage() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got := proc.GetMetrics().Failed; got != tt.wantFailed {
				t.Errorf("Failed = %d, want %d", got, tt.wantFailed)
			}
		})
	}
}

func TestProcessor_SportFromStream(t *testing.T) {
	snapshot := footballSnapshot("fx-5")
	snapshot.Sport = ""

	tests := []struct {
		name      string
		streamKey string
		wantSport string
		wantError bool
	}{
		{"football stream", "fixtures.snapshot.football", "football", false},
		{"unconfigured stream", "fixtures.snapshot.cricket", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			proc := newProcessor(t, &fakeSource{}, sink)

			msg := consumer.Message{ID: "1-0", StreamKey: tt.streamKey, Snapshot: snapshot}
			if err := proc.ProcessMessage(context.Background(), msg); err != nil {
				t.Fatalf("ProcessMessage() error: %v", err)
			}

			envelope := sink.envelopes[0]
			if envelope.Sport != tt.wantSport {
				t.Errorf("Sport = %q, want %q", envelope.Sport, tt.wantSport)
			}
			if (envelope.Error != "") != tt.wantError {
				t.Errorf("Error = %q, wantError %v", envelope.Error, tt.wantError)
			}
		})
	}
}

func TestProcessor_NoSports(t *testing.T) {
	reg, _ := registry.NewDefault()
	proc := processor.NewProcessor(&fakeSource{}, &fakeSink{}, oracle.NewEngine(reg, models.DefaultOptions()), logrus.New(), nil, nil)

	if err := proc.Start(context.Background()); err == nil {
		t.Error("expected error with no sports configured")
	}
}
