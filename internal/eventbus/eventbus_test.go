package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_BroadcastFansOut(t *testing.T) {
	bus := NewInMemory(nil)
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := bus.Broadcast().Subscribe(ctx, "round.snapshot.changed.v1")
	require.NoError(t, err)
	b, err := bus.Broadcast().Subscribe(ctx, "round.snapshot.changed.v1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("round.snapshot.changed.v1", message.NewMessage("m1", []byte(`{}`))))

	for _, ch := range []<-chan *message.Message{a, b} {
		select {
		case msg := <-ch:
			assert.Equal(t, "m1", msg.UUID)
			msg.Ack()
		case <-ctx.Done():
			t.Fatal("subscriber did not receive message")
		}
	}
}
