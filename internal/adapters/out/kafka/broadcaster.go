// Package kafka implements the domain event broadcaster on Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"
)

// messageWriter is the part of kafka.Writer the broadcaster depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewWriter builds a writer for the order events topic. Messages are keyed
// by order id so all events of one order land on the same partition.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// envelope is the wire format published to the order events topic.
type envelope struct {
	EventID    string          `json:"event_id"`
	OrderID    string          `json:"order_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Broadcaster implements ports.EventBroadcaster on a Kafka writer.
type Broadcaster struct {
	writer messageWriter
}

// NewBroadcaster creates a Kafka-backed event broadcaster.
func NewBroadcaster(writer messageWriter) (*Broadcaster, error) {
	if writer == nil {
		return nil, errs.NewValueIsRequiredError("writer")
	}
	return &Broadcaster{writer: writer}, nil
}

// Broadcast publishes the events to the order events topic in one batch.
func (b *Broadcaster) Broadcast(ctx context.Context, events ...*order.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}

		value, err := json.Marshal(envelope{
			EventID:    event.ID().String(),
			OrderID:    event.OrderID().String(),
			EventType:  event.EventType(),
			OccurredAt: event.OccurredAt(),
			Payload:    event.Payload(),
		})
		if err != nil {
			return err
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(event.OrderID().String()),
			Value: value,
			Time:  event.OccurredAt(),
		})
	}

	return b.writer.WriteMessages(ctx, messages...)
}
