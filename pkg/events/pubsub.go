package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// PubSubPublisher publishes envelopes to Google Cloud Pub/Sub topics.
type PubSubPublisher struct {
	client    *pubsub.Client
	projectID string
	logg      *logger.Logger

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewPubSubPublisher creates a Pub/Sub v2 client and ensures the given topics exist.
func NewPubSubPublisher(ctx context.Context, projectID string, topics []string, logg *logger.Logger, opts ...option.ClientOption) (*PubSubPublisher, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errProjectIDRequired
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	p := &PubSubPublisher{
		client:     client,
		projectID:  projectID,
		logg:       logg,
		publishers: map[string]*pubsub.Publisher{},
	}

	for _, topic := range topics {
		if err := p.ensureTopicExists(ctx, topic); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	if logg != nil {
		logg.Info(ctx, "pubsub publisher initialized")
	}
	return p, nil
}

func (p *PubSubPublisher) ensureTopicExists(ctx context.Context, name string) error {
	fullName := p.topicResourceName(name)
	if fullName == "" {
		return fmt.Errorf("topic %q not configured", name)
	}
	_, err := p.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: fullName})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("topic %q does not exist", name)
		}
		return fmt.Errorf("checking topic %q: %w", name, err)
	}
	return nil
}

// Publish sends env and waits for the server acknowledgement.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, env Envelope) error {
	publisher := p.publisher(topic)
	if publisher == nil {
		return fmt.Errorf("topic %q not configured", topic)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	result := publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: env.Attributes(),
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", env.EventType, err)
	}
	return nil
}

func (p *PubSubPublisher) publisher(topic string) *pubsub.Publisher {
	fullName := p.topicResourceName(topic)
	if fullName == "" {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.publishers[fullName]; ok {
		return existing
	}
	publisher := p.client.Publisher(fullName)
	p.publishers[fullName] = publisher
	return publisher
}

// Close flushes pending messages and releases the client.
func (p *PubSubPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	p.mu.Lock()
	for _, publisher := range p.publishers {
		publisher.Stop()
	}
	p.publishers = map[string]*pubsub.Publisher{}
	p.mu.Unlock()
	return p.client.Close()
}

func (p *PubSubPublisher) topicResourceName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	if strings.TrimSpace(p.projectID) == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p.projectID, n)
}
