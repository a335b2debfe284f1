package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher публикует события в Kafka, топик = prefix + subject
type KafkaPublisher struct {
	writer *kafka.Writer
	prefix string
}

func NewKafkaPublisher(brokers []string, prefix string, writeTimeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			WriteTimeout:           writeTimeout,
			AllowAutoTopicCreation: true,
		},
		prefix: prefix,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := NewEnvelope(subject, data)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.prefix + subject,
		Key:   []byte(subject),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to kafka: %w", subject, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
