package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderPlaced   = "order_placed"
	TypeOrdersCleared = "orders_cleared"
)

type OrderPlaced struct {
	Type        string  `json:"type"`
	OrderID     int     `json:"order_id"`
	FinalAmount float64 `json:"final_amount"`
	PickupType  string  `json:"pickup_type"`
}

type OrdersCleared struct {
	Type string `json:"type"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
			BatchTimeout:           10 * time.Millisecond,
			Async:                  true,
			Completion:             logFailedWrites,
		},
	}
}

// Async writes report delivery failures here instead of to the caller.
func logFailedWrites(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	slog.Default().Error("publish_event_error", "messages", len(messages), "error", err)
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }

func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
