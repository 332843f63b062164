package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// StreamPublisher publishes analysis envelopes to Redis Streams
type StreamPublisher struct {
	redis     *redis.Client
	streamFor func(sport string) string
	maxLen    int64
}

// NewStreamPublisher creates a new stream publisher; streamFor maps a sport
// to its output stream (e.g. fixtures.analysis.football)
func NewStreamPublisher(redisClient *redis.Client, streamFor func(sport string) string) *StreamPublisher {
	return &StreamPublisher{
		redis:     redisClient,
		streamFor: streamFor,
		maxLen:    10000,
	}
}

// StreamKey returns the stream an envelope of a sport is published to
func (p *StreamPublisher) StreamKey(sport string) string {
	return p.streamFor(sport)
}

// Publish publishes one envelope
func (p *StreamPublisher) Publish(ctx context.Context, envelope *models.AnalysisEnvelope) error {
	streamKey := p.StreamKey(envelope.Sport)

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("error marshaling analysis: %w", err)
	}

	_, err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", streamKey, err)
	}

	return nil
}
