package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/v2/pstest"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })
	_, err := srv.GServer.CreateTopic(ctx, &pubsubpb.Topic{Name: "projects/bc-test/topics/bc-order-events"})
	require.NoError(t, err)

	pub, err := NewPubSubPublisher(ctx, "bc-test", []string{"bc-order-events"}, nil,
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	env, err := NewEnvelope(EventOrderPlaced, "order-1", OrderPlaced{OrderID: "order-1"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, pub.Publish(ctx, "bc-order-events", env))

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "order.placed", msgs[0].Attributes["event_type"])

	var got Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Data, &got))
	require.Equal(t, env.EventID, got.EventID)
}

func TestPubSubPublisherRequiresTopic(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	_, err := NewPubSubPublisher(ctx, "bc-test", []string{"missing"}, nil,
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	require.Error(t, err)

	_, err = NewPubSubPublisher(ctx, " ", nil, nil)
	require.ErrorIs(t, err, errProjectIDRequired)
}

func TestTopicResourceName(t *testing.T) {
	p := &PubSubPublisher{projectID: "bc"}
	require.Equal(t, "projects/bc/topics/orders", p.topicResourceName("orders"))
	require.Equal(t, "projects/x/topics/y", p.topicResourceName("projects/x/topics/y"))
	require.Equal(t, "", p.topicResourceName(" "))
}
