package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// RoundCascader is the slice of the round repository the cleanup job needs.
type RoundCascader interface {
	CountRoundReferences(ctx context.Context, db bun.IDB, roundID string) (int, error)
	DeleteRound(ctx context.Context, db bun.IDB, roundID string) error
}

// RoundCleanupWorker deletes a round descriptor once nothing references it.
// A returned error makes River retry with backoff.
type RoundCleanupWorker struct {
	river.WorkerDefaults[RoundCleanupJob]
	repo    RoundCascader
	logger  *slog.Logger
	metrics Metrics
}

func NewRoundCleanupWorker(repo RoundCascader, logger *slog.Logger, metrics Metrics) *RoundCleanupWorker {
	return &RoundCleanupWorker{repo: repo, logger: logger, metrics: metrics}
}

func (w *RoundCleanupWorker) Timeout(*river.Job[RoundCleanupJob]) time.Duration {
	return 30 * time.Second
}

func (w *RoundCleanupWorker) Work(ctx context.Context, job *river.Job[RoundCleanupJob]) error {
	start := time.Now()
	w.metrics.RecordOperationAttempt(ctx, "round_cascade_cleanup", "river")
	defer func() {
		w.metrics.RecordOperationDuration(ctx, "round_cascade_cleanup", "river", time.Since(start))
	}()

	roundID := job.Args.RoundID
	refs, err := w.repo.CountRoundReferences(ctx, nil, roundID)
	if err != nil {
		w.metrics.RecordOperationFailure(ctx, "round_cascade_cleanup", "river")
		return fmt.Errorf("failed to count round references: %w", err)
	}
	if refs > 0 {
		w.logger.InfoContext(ctx, "Round still referenced, keeping descriptor",
			attr.RoundID(roundID),
			attr.Int("references", refs),
		)
		w.metrics.RecordOperationSuccess(ctx, "round_cascade_cleanup", "river")
		return nil
	}

	if err := w.repo.DeleteRound(ctx, nil, roundID); err != nil {
		w.logger.WarnContext(ctx, "Round cleanup attempt failed",
			attr.RoundID(roundID),
			attr.Int("attempt", job.Attempt),
			attr.Error(err),
		)
		w.metrics.RecordOperationFailure(ctx, "round_cascade_cleanup", "river")
		return fmt.Errorf("failed to delete round: %w", err)
	}

	w.logger.InfoContext(ctx, "Round descriptor cleaned up", attr.RoundID(roundID))
	w.metrics.RecordOperationSuccess(ctx, "round_cascade_cleanup", "river")
	return nil
}
