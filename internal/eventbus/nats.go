package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

const queueGroupPrefix = "golf-bot"

// natsBus implements EventBus over core NATS. Change events are a
// notification to rebuild, not a durable log, so JetStream is disabled.
type natsBus struct {
	*nats.Publisher
	*nats.Subscriber
	broadcast *nats.Subscriber
}

// NewNATS connects a publisher, a queue-group subscriber and a broadcast
// subscriber to url.
func NewNATS(url string, logger *slog.Logger) (EventBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	wmLogger := watermill.NewSlogLogger(logger)

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription",
					slog.String("subject", s.Subject),
					slog.String("queue", s.Queue),
					slog.Any("error", err),
				)
			} else {
				logger.Error("Error in connection", slog.Any("error", err))
			}
		}),
	}
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{Disabled: true}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         url,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream:   jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              url,
			QueueGroupPrefix: queueGroupPrefix,
			SubscribersCount: 4,
			CloseTimeout:     10 * time.Second,
			AckWaitTimeout:   30 * time.Second,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			JetStream:        jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	broadcast, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              url,
			SubscribersCount: 1,
			CloseTimeout:     10 * time.Second,
			AckWaitTimeout:   30 * time.Second,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			JetStream:        jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		_ = subscriber.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS broadcast subscriber: %w", err)
	}

	return &natsBus{Publisher: publisher, Subscriber: subscriber, broadcast: broadcast}, nil
}

func (b *natsBus) Broadcast() message.Subscriber { return b.broadcast }

// Close shuts down all three connections.
func (b *natsBus) Close() error {
	return errors.Join(b.Publisher.Close(), b.Subscriber.Close(), b.broadcast.Close())
}
