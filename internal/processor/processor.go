package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/oracle"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// SnapshotSource delivers snapshots from one stream per sport
type SnapshotSource interface {
	ConsumeStream(ctx context.Context, streamKey string) (<-chan consumer.Message, <-chan error)
	AckMessage(ctx context.Context, streamKey, messageID string) error
}

// EnvelopeSink receives finished analyses
type EnvelopeSink interface {
	Publish(ctx context.Context, envelope *models.AnalysisEnvelope) error
}

// Metrics is a snapshot of processing counters
type Metrics struct {
	Processed      int64 `json:"processed"`
	Failed         int64 `json:"failed"`
	Insufficient   int64 `json:"insufficient"`
	Contradictions int64 `json:"contradictions"`
	Warnings       int64 `json:"warnings"`
}

// Processor analyzes fixture snapshots as they arrive
type Processor struct {
	source    SnapshotSource
	sink      EnvelopeSink
	engine    *oracle.Engine
	logger    *logrus.Logger
	sports    []string
	streamFor func(sport string) string
	now       func() time.Time

	metrics Metrics
	mu      sync.Mutex
}

// NewProcessor creates a new processor for the given sports
func NewProcessor(
	source SnapshotSource,
	sink EnvelopeSink,
	engine *oracle.Engine,
	logger *logrus.Logger,
	sports []string,
	streamFor func(sport string) string,
) *Processor {
	return &Processor{
		source:    source,
		sink:      sink,
		engine:    engine,
		logger:    logger,
		sports:    sports,
		streamFor: streamFor,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start consumes every sport stream until the context ends
func (p *Processor) Start(ctx context.Context) error {
	if len(p.sports) == 0 {
		return fmt.Errorf("no sports configured")
	}

	var wg sync.WaitGroup

	for _, sport := range p.sports {
		wg.Add(1)
		go func(streamKey string) {
			defer wg.Done()
			p.processStream(ctx, streamKey)
		}(p.streamFor(sport))
	}

	wg.Wait()
	return nil
}

// processStream processes messages from a single stream
func (p *Processor) processStream(ctx context.Context, streamKey string) {
	log := p.logger.WithField("stream", streamKey)
	log.Info("started processing stream")

	messageCh, errorCh := p.source.ConsumeStream(ctx, streamKey)

	for {
		select {
		case <-ctx.Done():
			return

		case err, ok := <-errorCh:
			if !ok {
				errorCh = nil
				continue
			}
			log.WithError(err).Error("stream error")

		case msg, ok := <-messageCh:
			if !ok {
				return
			}

			if err := p.ProcessMessage(ctx, msg); err != nil {
				log.WithField("id", msg.ID).WithError(err).Error("error processing message")
			}

			if err := p.source.AckMessage(ctx, msg.StreamKey, msg.ID); err != nil {
				log.WithField("id", msg.ID).WithError(err).Error("error acknowledging message")
			}
		}
	}
}

// ProcessMessage analyzes one snapshot and publishes the envelope.
// Analysis failures are published too; only publish failures are returned.
func (p *Processor) ProcessMessage(ctx context.Context, msg consumer.Message) error {
	snapshot := msg.Snapshot
	if snapshot.Sport == "" {
		snapshot.Sport = p.sportOf(msg.StreamKey)
	}

	envelope := &models.AnalysisEnvelope{
		AnalysisID: uuid.New().String(),
		FixtureID:  snapshot.FixtureID,
		Sport:      snapshot.Sport,
		AnalyzedAt: p.now(),
	}

	log := p.logger.WithFields(logrus.Fields{
		"analysis_id": envelope.AnalysisID,
		"fixture_id":  snapshot.FixtureID,
		"sport":       snapshot.Sport,
	})

	result, err := p.engine.AnalyzeSnapshot(snapshot)
	if err != nil {
		envelope.Error = err.Error()

		var insufficient *models.InsufficientDataError
		if errors.As(err, &insufficient) {
			envelope.MissingOutcomes = insufficient.Outcomes
			envelope.ExcludedMarkets = insufficient.Excluded
			p.record(func(m *Metrics) { m.Insufficient++ })
			log.WithFields(logrus.Fields{"missing": insufficient.Outcomes, "excluded": insufficient.Excluded}).Warn("insufficient data")
		} else {
			p.record(func(m *Metrics) { m.Failed++ })
			log.WithError(err).Error("analysis failed")
		}
	} else {
		envelope.Result = result
		p.record(func(m *Metrics) {
			m.Processed++
			m.Contradictions += int64(len(result.Contradictions))
			m.Warnings += int64(len(result.Warnings))
		})

		for _, w := range result.Warnings {
			log.WithFields(logrus.Fields{"code": w.Code, "market": w.Market, "selection": w.Selection}).Debug(w.Message)
		}
		log.WithFields(logrus.Fields{
			"contradictions": len(result.Contradictions),
			"confidence":     result.Confidence,
			"recommendation": result.Recommendation.Label,
		}).Info("fixture analyzed")
	}

	if err := p.sink.Publish(ctx, envelope); err != nil {
		p.record(func(m *Metrics) { m.Failed++ })
		return fmt.Errorf("publish error: %w", err)
	}

	return nil
}

// sportOf returns the configured sport consumed from a stream, or ""
func (p *Processor) sportOf(streamKey string) string {
	for _, sport := range p.sports {
		if p.streamFor(sport) == streamKey {
			return sport
		}
	}
	return ""
}

func (p *Processor) record(update func(m *Metrics)) {
	p.mu.Lock()
	update(&p.metrics)
	p.mu.Unlock()
}

// GetMetrics returns current processing metrics
func (p *Processor) GetMetrics() Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}
