package kafka

import (
	"context"
	"fmt"

	"flazz/internal/events"
	applog "flazz/internal/log"

	"github.com/segmentio/kafka-go"
)

// Publisher writes TransactionRecorded events to a Kafka topic, keyed by
// account so one account's events stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
	logger *applog.Logger
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string, logger *applog.Logger) *Publisher {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Publisher{
		logger: logger.WithComponent(applog.ComponentEvents),
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *Publisher) PublishTransaction(ctx context.Context, msg *events.TransactionRecorded) error {
	data, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.AccountID),
		Value: data,
	}); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	p.logger.InfoContext(ctx, "Published transaction event",
		"id", msg.ID,
		"topic", p.writer.Topic,
		"seq", msg.Seq)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
