package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	RoundID string `json:"round_id"`
}

type pong struct {
	RoundID string `json:"round_id"`
	Seen    bool   `json:"seen"`
}

func TestWrapTransformingTyped(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 4}, watermill.NopLogger{})
	defer pubsub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := pubsub.Subscribe(ctx, "pong")
	require.NoError(t, err)

	var gotCorrelation string
	h := WrapTransformingTyped("test.ping", nil, nil, pubsub, func(ctx context.Context, p *ping) ([]Result, error) {
		gotCorrelation = attr.CorrelationID(ctx)
		return []Result{{Topic: "pong", Payload: pong{RoundID: p.RoundID, Seen: true}}}, nil
	})

	in := message.NewMessage("m1", []byte(`{"round_id":"r1"}`))
	middleware.SetCorrelationID("corr-9", in)
	require.NoError(t, h(in))
	assert.Equal(t, "corr-9", gotCorrelation)

	select {
	case msg := <-out:
		var p pong
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		assert.Equal(t, pong{RoundID: "r1", Seen: true}, p)
		assert.Equal(t, "corr-9", middleware.MessageCorrelationID(msg))
		assert.Equal(t, "test.ping", msg.Metadata.Get("caused_by"))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("no result published")
	}
}

func TestWrapTransformingTyped_Errors(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	called := false
	h := WrapTransformingTyped("test.ping", nil, nil, pubsub, func(context.Context, *ping) ([]Result, error) {
		called = true
		return nil, errors.New("boom")
	})

	assert.NoError(t, h(message.NewMessage("bad", []byte(`not json`))), "undecodable payloads are dropped")
	assert.False(t, called)

	err := h(message.NewMessage("m2", []byte(`{"round_id":"r1"}`)))
	assert.ErrorContains(t, err, "test.ping: boom")
}
