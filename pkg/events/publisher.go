package events

import (
	"context"
	"fmt"

	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

// Publisher delivers envelopes to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, env Envelope) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, Envelope) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

// New builds the publisher selected by the events driver.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Publisher, error) {
	switch cfg.Events.DriverName() {
	case config.EventsDriverNone:
		return Nop{}, nil
	case config.EventsDriverPubSub:
		return NewPubSubPublisher(ctx, cfg.GCP.ProjectID, []string{cfg.Events.OrdersTopic}, logg)
	case config.EventsDriverKafka:
		return NewKafkaPublisher(cfg.Kafka.Brokers, logg)
	default:
		return nil, fmt.Errorf("unsupported events driver %q", cfg.Events.Driver)
	}
}
