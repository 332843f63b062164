package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// StreamConsumer reads fixture snapshots from Redis Streams
type StreamConsumer struct {
	redis      *redis.Client
	logger     *logrus.Logger
	consumerID string
	groupName  string
	batchSize  int64
	blockTime  time.Duration
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, logger *logrus.Logger, consumerID, groupName string) *StreamConsumer {
	return &StreamConsumer{
		redis:      redisClient,
		logger:     logger,
		consumerID: consumerID,
		groupName:  groupName,
		batchSize:  50,
		blockTime:  5 * time.Second,
	}
}

// Message represents a consumed snapshot
type Message struct {
	ID        string
	Snapshot  models.Snapshot
	StreamKey string
}

// ConsumeStream reads snapshots from a Redis stream until the context ends
func (c *StreamConsumer) ConsumeStream(ctx context.Context, streamKey string) (<-chan Message, <-chan error) {
	messageCh := make(chan Message, c.batchSize)
	errorCh := make(chan error, 1)

	go func() {
		defer close(messageCh)
		defer close(errorCh)

		if err := c.createConsumerGroup(ctx, streamKey); err != nil {
			c.sendError(ctx, errorCh, fmt.Errorf("failed to create consumer group: %w", err))
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			messages, err := c.readMessages(ctx, streamKey)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.sendError(ctx, errorCh, fmt.Errorf("error reading messages: %w", err))
				// Back off so a dead connection doesn't spin
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, msg := range messages {
				select {
				case messageCh <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return messageCh, errorCh
}

// readMessages reads a batch of messages from the stream
func (c *StreamConsumer) readMessages(ctx context.Context, streamKey string) ([]Message, error) {
	streams, err := c.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.groupName,
		Consumer: c.consumerID,
		Streams:  []string{streamKey, ">"},
		Count:    c.batchSize,
		Block:    c.blockTime,
	}).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			// No new messages, not an error
			return nil, nil
		}
		return nil, err
	}

	var messages []Message

	for _, stream := range streams {
		for _, xmsg := range stream.Messages {
			data, ok := xmsg.Values["data"].(string)
			if !ok {
				c.logger.WithFields(logrus.Fields{"stream": streamKey, "id": xmsg.ID}).Warn("message has no data field")
				c.ackMessage(ctx, streamKey, xmsg.ID)
				continue
			}

			var snapshot models.Snapshot
			if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
				c.logger.WithFields(logrus.Fields{"stream": streamKey, "id": xmsg.ID}).WithError(err).Warn("dropping malformed snapshot")
				// ACK the message anyway to prevent reprocessing
				c.ackMessage(ctx, streamKey, xmsg.ID)
				continue
			}

			messages = append(messages, Message{
				ID:        xmsg.ID,
				Snapshot:  snapshot,
				StreamKey: streamKey,
			})
		}
	}

	return messages, nil
}

// AckMessage acknowledges a message has been processed
func (c *StreamConsumer) AckMessage(ctx context.Context, streamKey, messageID string) error {
	return c.ackMessage(ctx, streamKey, messageID)
}

func (c *StreamConsumer) ackMessage(ctx context.Context, streamKey, messageID string) error {
	return c.redis.XAck(ctx, streamKey, c.groupName, messageID).Err()
}

// createConsumerGroup creates the consumer group if it doesn't exist
func (c *StreamConsumer) createConsumerGroup(ctx context.Context, streamKey string) error {
	err := c.redis.XGroupCreateMkStream(ctx, streamKey, c.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *StreamConsumer) sendError(ctx context.Context, errorCh chan<- error, err error) {
	select {
	case errorCh <- err:
	case <-ctx.Done():
	default:
		// Previous error still unread; log instead of blocking
		c.logger.WithError(err).Warn("stream consumer error")
	}
}
