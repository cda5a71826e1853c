package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes envelopes to Kafka, keyed by aggregate id so events of
// one order land on one partition.
type KafkaPublisher struct {
	writer messageWriter
	logg   *logger.Logger
}

// NewKafkaPublisher builds a publisher sharing one writer across topics.
func NewKafkaPublisher(brokers []string, logg *logger.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: false,
	}
	return &KafkaPublisher{writer: writer, logg: logg}, nil
}

// Publish implements Publisher.
func (k *KafkaPublisher) Publish(ctx context.Context, topic string, env Envelope) error {
	if topic == "" {
		return errors.New("kafka topic is required")
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	headers := make([]kafkago.Header, 0, 3)
	for key, value := range env.Attributes() {
		headers = append(headers, kafkago.Header{Key: key, Value: []byte(value)})
	}

	if err := k.writer.WriteMessages(ctx, kafkago.Message{
		Topic:   topic,
		Key:     []byte(env.AggregateID),
		Value:   payload,
		Headers: headers,
		Time:    env.OccurredAt,
	}); err != nil {
		return fmt.Errorf("write %s to %s: %w", env.EventType, topic, err)
	}
	return nil
}

// Close implements Publisher.
func (k *KafkaPublisher) Close() error {
	if k == nil || k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
