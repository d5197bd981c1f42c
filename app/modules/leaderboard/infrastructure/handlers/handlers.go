package leaderboardhandlers

import (
	"log/slog"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/golf-bot/internal/metrics/leaderboardmetrics"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers handles leaderboard-related events.
type LeaderboardHandlers struct {
	leaderboardService leaderboardservice.Service
	logger             *slog.Logger
	tracer             trace.Tracer
	metrics            leaderboardmetrics.LeaderboardMetrics

	mu   sync.Mutex
	last map[string]string // round id -> fingerprint of the last announced board
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers.
func NewLeaderboardHandlers(
	leaderboardService leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics leaderboardmetrics.LeaderboardMetrics,
) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = leaderboardmetrics.NewNoop()
	}
	return &LeaderboardHandlers{
		leaderboardService: leaderboardService,
		logger:             logger,
		tracer:             tracer,
		metrics:            metrics,
		last:               map[string]string{},
	}
}
