package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"council/internal/platform/kafka"
)

// streamPayload is the JSON wire format on the audit topic. The record key
// is the entry id so downstream materialization stays idempotent under
// at-least-once delivery.
type streamPayload struct {
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Details   map[string]string `json:"details,omitempty"`
}

// KafkaStream publishes audit entries to a Kafka topic.
type KafkaStream struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaStream(producer *kafka.Producer, topic string) *KafkaStream {
	return &KafkaStream{producer: producer, topic: topic}
}

func (s *KafkaStream) Publish(ctx context.Context, entry Entry) error {
	payload := streamPayload{
		ID:        entry.ID.String(),
		Timestamp: entry.Timestamp.Format(time.RFC3339Nano),
		Action:    string(entry.Action),
		Actor:     string(entry.Actor),
		Details:   entry.Details,
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	return s.producer.Produce(ctx, s.topic, []byte(payload.ID), value)
}
