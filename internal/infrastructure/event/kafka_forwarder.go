package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON document written to Kafka for every domain event
type Envelope struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	OccurredAt    time.Time          `json:"occurred_at"`
	Payload       shared.DomainEvent `json:"payload"`
}

// KafkaForwarder is a wildcard event handler that copies domain events to a
// Kafka topic. Messages are keyed by aggregate id so events of one order land
// on one partition in order.
type KafkaForwarder struct {
	writer  MessageWriter
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaWriter builds a writer for the given brokers and topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaForwarder creates a forwarder. Each write is bounded by timeout.
func NewKafkaForwarder(writer MessageWriter, timeout time.Duration, logger *zap.Logger) *KafkaForwarder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaForwarder{
		writer:  writer,
		timeout: timeout,
		logger:  logger,
	}
}

// EventTypes returns nil: the forwarder receives every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

func (f *KafkaForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	data, err := json.Marshal(Envelope{
		ID:            event.EventID().String(),
		Type:          event.EventType(),
		AggregateID:   event.AggregateID().String(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt().UTC(),
		Payload:       event,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.EventType(), err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	err = f.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: data,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to forward event %s to kafka: %w", event.EventType(), err)
	}

	f.logger.Debug("Event forwarded to kafka",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
	)
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
