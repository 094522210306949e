package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events as JSON messages keyed by tenant
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}, nil
}

// Message builds the kafka message for an event
func Message(topic string, event Event) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(event.TenantID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event Event) error {
	msg, err := Message(topic, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to %s: %w", event.Type, topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
