// Package kafka wraps the franz-go client for the audit stream: a
// synchronous producer and a group consumer dispatching to a handler.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records synchronously. Audit delivery is at-least-once;
// consumers must be idempotent on the record key.
type Producer struct {
	client *kgo.Client
}

// NewProducer connects to the given brokers.
func NewProducer(brokers []string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{client: client}, nil
}

// EnsureTopic creates the topic if it does not exist.
func (p *Producer) EnsureTopic(ctx context.Context, topic string) error {
	adm := kadm.NewClient(p.client)
	resps, err := adm.CreateTopics(ctx, 1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
		}
	}
	return nil
}

// Produce sends one record and waits for the broker acknowledgement.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) error {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close() {
	p.client.Close()
}
