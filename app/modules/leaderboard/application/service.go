package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-bot/internal/metrics/leaderboardmetrics"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Recompute triggers, used as the metrics label.
const (
	TriggerQuery   = "query"
	TriggerInitial = "watch_initial"
	TriggerChange  = "watch_change"
	TriggerEvent   = "event"
)

// SnapshotReader is the read side of the round store the leaderboard needs.
type SnapshotReader interface {
	GetRound(ctx context.Context, db bun.IDB, roundID string) (*rounddomain.Round, error)
	ListDocuments(ctx context.Context, db bun.IDB, c rounddomain.Collection, roundID string) ([]*rounddomain.Snapshot, error)
}

// LeaderboardService rebuilds boards from the stored snapshots.
type LeaderboardService struct {
	repo       SnapshotReader
	subscriber message.Subscriber
	catalog    *course.Catalog
	logger     *slog.Logger
	metrics    leaderboardmetrics.LeaderboardMetrics
	tracer     trace.Tracer
	interval   time.Duration
}

// NewLeaderboardService creates a LeaderboardService. subscriber receives
// snapshot change events for Watch and must deliver every message to every
// subscription. interval is the minimum gap between rebuilds in one watcher;
// zero rebuilds on every change.
func NewLeaderboardService(
	repo SnapshotReader,
	subscriber message.Subscriber,
	catalog *course.Catalog,
	logger *slog.Logger,
	metrics leaderboardmetrics.LeaderboardMetrics,
	tracer trace.Tracer,
	interval time.Duration,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = leaderboardmetrics.NewNoop()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("leaderboard")
	}
	if catalog == nil {
		catalog = course.DefaultCatalog()
	}
	return &LeaderboardService{
		repo:       repo,
		subscriber: subscriber,
		catalog:    catalog,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		interval:   interval,
	}
}

// GetLeaderboard builds the current board for a round.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (*leaderboarddomain.Board, error) {
	board, err := s.build(ctx, roundID, viewer, TriggerQuery)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Rebuild builds the board with no viewer highlighted.
func (s *LeaderboardService) Rebuild(ctx context.Context, roundID string) (*leaderboarddomain.Board, error) {
	board, err := s.build(ctx, roundID, leaderboarddomain.Viewer{}, TriggerEvent)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// build loads the round and both snapshot sets and recomputes the board. A
// missing round descriptor is not an error; the board is built without prizes.
func (s *LeaderboardService) build(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer, trigger string) (board leaderboarddomain.Board, err error) {
	ctx, span := s.tracer.Start(ctx, "Leaderboard.Build", trace.WithAttributes(
		attribute.String("round_id", roundID),
		attribute.String("trigger", trigger),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	defer func() {
		if err == nil {
			s.metrics.RecordRecompute(ctx, trigger, time.Since(start))
		}
	}()

	round, err := s.repo.GetRound(ctx, nil, roundID)
	if err != nil && !errors.Is(err, rounddb.ErrNotFound) {
		return board, fmt.Errorf("failed to get round: %w", err)
	}
	courseName := ""
	if round != nil {
		courseName = round.Course
	}

	active, err := s.repo.ListDocuments(ctx, nil, rounddomain.CollectionActive, roundID)
	if err != nil {
		return board, fmt.Errorf("failed to list active rounds: %w", err)
	}
	completed, err := s.repo.ListDocuments(ctx, nil, rounddomain.CollectionCompleted, roundID)
	if err != nil {
		return board, fmt.Errorf("failed to list completed rounds: %w", err)
	}
	if courseName == "" {
		courseName = firstCourse(active, completed)
	}

	board = leaderboarddomain.Build(leaderboarddomain.BuildContext{
		RoundID:   roundID,
		Round:     round,
		Course:    s.catalog.CourseData(courseName),
		Active:    active,
		Completed: completed,
		Viewer:    viewer,
	})

	s.logger.DebugContext(ctx, "Leaderboard rebuilt",
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(roundID),
		attr.String("trigger", trigger),
		attr.Int("entries", len(board.Entries)),
	)
	return board, nil
}

// firstCourse falls back to the course carried on the snapshots when the
// round descriptor is gone.
func firstCourse(sets ...[]*rounddomain.Snapshot) string {
	for _, set := range sets {
		for _, snap := range set {
			if snap.Course != "" {
				return snap.Course
			}
		}
	}
	return ""
}
