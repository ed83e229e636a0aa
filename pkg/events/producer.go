package events

import (
	"context"
	"encoding/json"
	"fmt"
	"innkeep/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Publisher emits booking lifecycle events for external collaborators.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	source string
}

func NewProducer(brokers []string, topic, source string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // key by room id so per-room events stay ordered
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
	}

	return &Producer{writer: writer, source: source}, nil
}

func (p *Producer) Publish(ctx context.Context, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.RoomID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderSource, Value: []byte(p.source)},
			{Key: HeaderTimestamp, Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when no brokers are configured and in
// tests.
type NoopPublisher struct {
	log *logger.Logger
}

func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (n *NoopPublisher) Publish(_ context.Context, event BookingEvent) error {
	if n.log != nil {
		n.log.Debug("Event publishing disabled, dropping event",
			"type", event.Type,
			"booking_id", event.BookingID,
		)
	}
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
