// Package kafka forwards inspections to a Kafka topic for fleet-level
// collection. It uses the same JSON schema as the MQTT inspection topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sweeney/banana-cart/internal/logic"
	"github.com/sweeney/banana-cart/internal/mqtt"
)

// messageWriter mirrors the subset of kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes inspections keyed by inspection id.
type Publisher struct {
	w       messageWriter
	timeout time.Duration
}

// NewPublisher creates a Publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		timeout: 5 * time.Second,
	}
}

// Publish writes one inspection.
func (p *Publisher) Publish(in logic.Inspection) error {
	value, err := json.Marshal(mqtt.NewPayload(in))
	if err != nil {
		return fmt.Errorf("marshal inspection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(in.ID),
		Value: value,
		Time:  in.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}
