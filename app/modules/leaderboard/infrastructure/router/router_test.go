package leaderboardrouter

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/events"
	"github.com/Black-And-White-Club/golf-bot/internal/eventbus"
	"github.com/Black-And-White-Club/golf-bot/internal/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubHandlers struct {
	calls chan string
}

func (s *stubHandlers) HandleSnapshotChanged(_ context.Context, p *events.SnapshotChangedPayloadV1) ([]handlerwrapper.Result, error) {
	s.calls <- p.RoundID
	return []handlerwrapper.Result{{
		Topic:   events.LeaderboardUpdatedV1,
		Payload: &events.LeaderboardUpdatedPayloadV1{RoundID: p.RoundID, Fingerprint: "fp", Board: []byte(`{}`)},
	}}, nil
}

func TestLeaderboardRouter_RoutesSnapshotChanges(t *testing.T) {
	t.Setenv(TestEnvironmentFlag, TestEnvironmentValue)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewInMemory(logger)
	defer bus.Close()

	mr, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	r := NewLeaderboardRouter(logger, mr, bus, noop.NewTracerProvider().Tracer("test"), nil)
	stub := &stubHandlers{calls: make(chan string, 1)}
	require.NoError(t, r.Configure(context.Background(), stub))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mr.Run(ctx) }()
	<-mr.Running()
	defer r.Close()

	updates, err := bus.Broadcast().Subscribe(ctx, events.LeaderboardUpdatedV1)
	require.NoError(t, err)

	msg, err := events.NewMessage(ctx, events.RoundSnapshotChangedV1, &events.SnapshotChangedPayloadV1{RoundID: "r1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(events.RoundSnapshotChangedV1, msg))

	select {
	case got := <-stub.calls:
		assert.Equal(t, "r1", got)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not invoked")
	}

	select {
	case out := <-updates:
		out.Ack()
		payload, err := events.Decode[events.LeaderboardUpdatedPayloadV1](out)
		require.NoError(t, err)
		assert.Equal(t, "r1", payload.RoundID)
		assert.Equal(t, middleware.MessageCorrelationID(msg), middleware.MessageCorrelationID(out))
	case <-time.After(2 * time.Second):
		t.Fatal("leaderboard update not published")
	}
}
