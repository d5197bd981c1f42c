package eventbus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus publishes messages and offers two kinds of subscription.
//
// Subscribe joins the service-wide queue group, so one instance handles each
// message; router handlers use it. Broadcast subscriptions receive every
// message and back per-client live feeds.
type EventBus interface {
	message.Publisher
	message.Subscriber
	Broadcast() message.Subscriber
}

// inMemory is a single-process bus. Every gochannel subscription already
// receives every message, so Broadcast returns the same pubsub.
type inMemory struct {
	*gochannel.GoChannel
}

// NewInMemory returns a bus backed by watermill's gochannel pubsub.
func NewInMemory(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &inMemory{
		GoChannel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
	}
}

func (b *inMemory) Broadcast() message.Subscriber { return b.GoChannel }
