package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Topics.
const (
	// RoundSnapshotChangedV1 fires after any write that changes what a round's
	// leaderboard would show.
	RoundSnapshotChangedV1 = "round.snapshot.changed.v1"
	// LeaderboardUpdatedV1 carries a freshly rebuilt board.
	LeaderboardUpdatedV1 = "leaderboard.updated.v1"
)

// TopicMetadataKey names the metadata entry holding a message's topic.
const TopicMetadataKey = "topic"

// SnapshotChangedPayloadV1 identifies the participant record that changed.
type SnapshotChangedPayloadV1 struct {
	RoundID     string    `json:"round_id"`
	ScorecardID string    `json:"scorecard_id,omitempty"`
	Collection  string    `json:"collection,omitempty"`
	ChangedAt   time.Time `json:"changed_at"`
}

// LeaderboardUpdatedPayloadV1 carries the rebuilt board for a round. Board is
// kept as raw JSON so this package stays free of domain imports.
type LeaderboardUpdatedPayloadV1 struct {
	RoundID     string          `json:"round_id"`
	Fingerprint string          `json:"fingerprint"`
	Board       json.RawMessage `json:"board"`
}

// NewMessage marshals payload into a watermill message with a fresh UUID,
// the topic in metadata and the correlation id from ctx, if any.
func NewMessage(ctx context.Context, topic string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(TopicMetadataKey, topic)

	correlationID := attr.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.SetContext(ctx)
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (*T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %T: %w", out, err)
	}
	return &out, nil
}
