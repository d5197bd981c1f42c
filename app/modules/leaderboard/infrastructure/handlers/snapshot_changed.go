package leaderboardhandlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Black-And-White-Club/golf-bot/app/events"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
)

// HandleSnapshotChanged rebuilds the whole board from the store. The payload
// only names the round; the changed record is read back with everything else.
func (h *LeaderboardHandlers) HandleSnapshotChanged(
	ctx context.Context,
	payload *events.SnapshotChangedPayloadV1,
) ([]handlerwrapper.Result, error) {
	if payload.RoundID == "" {
		h.logger.WarnContext(ctx, "Ignoring snapshot change without round id",
			attr.ExtractCorrelationID(ctx),
			attr.ScorecardID(payload.ScorecardID),
		)
		return nil, nil
	}

	board, err := h.leaderboardService.Rebuild(ctx, payload.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild leaderboard: %w", err)
	}

	fp := leaderboarddomain.Fingerprint(*board)
	if !h.remember(payload.RoundID, fp) {
		h.metrics.RecordPublishSkipped(ctx)
		h.logger.DebugContext(ctx, "Leaderboard unchanged, not announcing",
			attr.ExtractCorrelationID(ctx),
			attr.RoundID(payload.RoundID),
		)
		return nil, nil
	}

	body, err := json.Marshal(board)
	if err != nil {
		h.forget(payload.RoundID, fp)
		return nil, fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	h.logger.InfoContext(ctx, "Leaderboard updated",
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(payload.RoundID),
		attr.Int("entries", len(board.Entries)),
	)

	return []handlerwrapper.Result{{
		Topic: events.LeaderboardUpdatedV1,
		Payload: &events.LeaderboardUpdatedPayloadV1{
			RoundID:     payload.RoundID,
			Fingerprint: fp,
			Board:       body,
		},
	}}, nil
}

// remember records fp as the last announced board for the round and reports
// whether it differs from the previous one.
func (h *LeaderboardHandlers) remember(roundID, fp string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last[roundID] == fp {
		return false
	}
	h.last[roundID] = fp
	return true
}

// forget drops fp so a retry of the same board is announced.
func (h *LeaderboardHandlers) forget(roundID, fp string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last[roundID] == fp {
		delete(h.last, roundID)
	}
}
