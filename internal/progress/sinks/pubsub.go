package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/JakeFAU/route-narrator/internal/progress"
)

// Publisher sends one encoded message and returns the server-assigned ID.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// TopicPublisher publishes to a Google Cloud Pub/Sub topic.
type TopicPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewTopicPublisher dials Pub/Sub for projectID and binds topicID.
func NewTopicPublisher(ctx context.Context, projectID, topicID string) (*TopicPublisher, error) {
	if projectID == "" || topicID == "" {
		return nil, errors.New("pubsub project id and topic name are required")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &TopicPublisher{client: client, topic: client.Topic(topicID)}, nil
}

// Publish sends data and waits for the publish acknowledgement.
func (p *TopicPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	result := p.topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish message: %w", err)
	}
	return id, nil
}

// Close flushes pending messages and releases the client.
func (p *TopicPublisher) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}

// PubSubSink forwards progress events as JSON messages. Step events can be
// skipped to publish only run lifecycle transitions.
type PubSubSink struct {
	publisher Publisher
	skipSteps bool
	logger    *zap.Logger
}

// PubSubOption customizes a PubSubSink.
type PubSubOption func(*PubSubSink)

// WithoutSteps publishes only run start/end events.
func WithoutSteps() PubSubOption {
	return func(s *PubSubSink) {
		s.skipSteps = true
	}
}

// NewPubSubSink constructs a sink around publisher.
func NewPubSubSink(publisher Publisher, logger *zap.Logger, opts ...PubSubOption) *PubSubSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PubSubSink{publisher: publisher, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type message struct {
	RunID string `json:"run_id"`
	progress.Event
}

// Consume publishes each event in order and stops at the first failure.
func (s *PubSubSink) Consume(ctx context.Context, batch []progress.Event) error {
	if s == nil || s.publisher == nil {
		return nil
	}
	for _, evt := range batch {
		if s.skipSteps && evt.Stage == progress.StageStep {
			continue
		}
		runID := evt.RunUUID().String()
		data, err := json.Marshal(message{RunID: runID, Event: evt})
		if err != nil {
			return fmt.Errorf("marshal progress event: %w", err)
		}
		attrs := map[string]string{
			"run_id": runID,
			"stage":  string(evt.Stage),
		}
		id, err := s.publisher.Publish(ctx, data, attrs)
		if err != nil {
			return fmt.Errorf("publish %s event: %w", evt.Stage, err)
		}
		s.logger.Debug("progress event published", zap.String("message_id", id))
	}
	return nil
}

// Close releases the publisher.
func (s *PubSubSink) Close(context.Context) error {
	if s == nil || s.publisher == nil {
		return nil
	}
	return s.publisher.Close()
}
