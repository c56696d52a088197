package notification

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	messagedomain "message-notifier/internal/message/domain"
	"message-notifier/internal/message/dto"
	"message-notifier/pkg/logging"
	"message-notifier/pkg/metrics"
)

// EventHandler consumes one decoded message-created event
type EventHandler interface {
	Handle(ctx context.Context, evt messagedomain.MessageCreatedEvent) Result
}

// Subscriber pulls document events from a Pub/Sub subscription and feeds
// them to the handler. Every message is acked, whatever the outcome.
type Subscriber struct {
	pubsubClient *pubsub.Client
	handler      EventHandler
	collection   string
	topicName    string
	subName      string
}

// NewSubscriber creates a Subscriber on subName. topicName is only used to
// create the subscription when it does not exist yet.
func NewSubscriber(client *pubsub.Client, handler EventHandler, collection, topicName, subName string) *Subscriber {
	return &Subscriber{
		pubsubClient: client,
		handler:      handler,
		collection:   collection,
		topicName:    topicName,
		subName:      subName,
	}
}

// Start blocks receiving messages until ctx is cancelled or the
// subscription fails.
func (s *Subscriber) Start(ctx context.Context) error {
	log := logging.Component("pubsub")

	sub, err := s.ensureSubscription(ctx)
	if err != nil {
		return err
	}

	log.Info().Str("subscription", s.subName).Msg("listening for message events")
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.process(ctx, msg.ID, msg.Data)
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to receive from %s: %w", s.subName, err)
	}
	return nil
}

func (s *Subscriber) ensureSubscription(ctx context.Context) (*pubsub.Subscription, error) {
	log := logging.Component("pubsub")

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription %s: %w", s.subName, err)
	}
	if exists {
		return sub, nil
	}

	if s.topicName == "" {
		return nil, fmt.Errorf("subscription %s does not exist and no topic is configured", s.subName)
	}

	topic := s.pubsubClient.Topic(s.topicName)
	topicExists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", s.topicName, err)
	}
	if !topicExists {
		return nil, fmt.Errorf("topic %s does not exist, cannot create subscription", s.topicName)
	}

	sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription %s: %w", s.subName, err)
	}
	log.Info().Str("subscription", s.subName).Str("topic", s.topicName).Msg("created subscription")
	return sub, nil
}

// process decodes one payload and hands it to the handler. Undecodable
// payloads are reported as invalid events and dropped.
func (s *Subscriber) process(ctx context.Context, id string, data []byte) Result {
	if id == "" {
		id = uuid.New().String()
	}

	evt, err := dto.DecodeDocumentEvent(data, s.collection)
	if err != nil {
		l := logging.Component("pubsub")
		l.Warn().Err(err).Str("event_id", id).Msg("dropping undecodable message event")
		metrics.IncOutcome(string(OutcomeSkippedInvalidEvent))
		return Result{Outcome: OutcomeSkippedInvalidEvent, Err: err}
	}

	evt.EventID = id
	return s.handler.Handle(ctx, evt)
}
