package leaderboardhandlers

import (
	"context"

	"github.com/Black-And-White-Club/golf-bot/app/events"
	"github.com/Black-And-White-Club/golf-bot/internal/handlerwrapper"
)

// Handlers defines the interface for leaderboard event handlers.
type Handlers interface {
	// HandleSnapshotChanged rebuilds the board of the changed round and
	// announces it when it differs from the last one announced.
	HandleSnapshotChanged(ctx context.Context, payload *events.SnapshotChangedPayloadV1) ([]handlerwrapper.Result, error)
}
