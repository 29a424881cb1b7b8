package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-agnostic view of a consumed record.
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Handler processes consumed messages. Returning an error leaves the offset
// uncommitted so the record is redelivered; handlers must therefore be
// idempotent.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Consumer runs a consumer group loop and dispatches records to a handler.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// NewConsumer joins the given group and subscribes to the topics.
func NewConsumer(brokers []string, group string, topics []string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until the context is cancelled. Offsets are committed per poll
// after every record in the batch was handled.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var handleErr error
		fetches.EachRecord(func(record *kgo.Record) {
			if handleErr != nil {
				return
			}
			handleErr = c.handler.Handle(ctx, &Message{
				Topic: record.Topic,
				Key:   record.Key,
				Value: record.Value,
			})
		})
		if handleErr != nil {
			c.logger.Error("handler error, offsets not committed", "error", handleErr)
			continue
		}

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.Error("commit offsets", "error", err)
		}
	}
}
