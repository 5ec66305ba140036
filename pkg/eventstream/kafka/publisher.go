// Package kafka publishes turn events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/parchmentlabs/lectern/pkg/eventstream"
)

// Publisher writes turn events to a Kafka topic, keyed by session so one
// session's turns stay ordered within a partition.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses. Required.
	Brokers []string

	// Topic is the topic to publish turn events to. Required.
	Topic string
}

// NewPublisher creates a Kafka-backed turn event publisher.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}

	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafkago.LeastBytes{},
	}

	logger.Info("kafka turn event publisher initialized",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

// PublishTurn serializes the event and writes it to the topic.
func (p *Publisher) PublishTurn(ctx context.Context, event *eventstream.TurnAppendedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling turn event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("writing turn event: %w", err)
	}

	p.logger.Debug("published turn event",
		"event_id", event.EventID,
		"session_id", event.SessionID,
		"outcome", event.Outcome,
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
