package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	leaderboardservice "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/infrastructure/handlers"
	leaderboardrouter "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/golf-bot/config"
	"github.com/Black-And-White-Club/golf-bot/internal/eventbus"
	"github.com/Black-And-White-Club/golf-bot/internal/metrics/leaderboardmetrics"
	"github.com/Black-And-White-Club/golf-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Module wires the leaderboard service to the shared router. It owns no
// goroutines of its own; Watch feeds live on the caller's context.
type Module struct {
	LeaderboardService leaderboardservice.Service
	logger             *slog.Logger
	done               chan struct{}
	closeOnce          sync.Once
}

// NewLeaderboardModule builds the service and subscribes its snapshot
// handler. Watch reads the bus's broadcast side so every live feed sees
// every change, while the router handler joins the shared queue.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	reader leaderboardservice.SnapshotReader,
	eventBus eventbus.EventBus,
	router *message.Router,
	catalog *course.Catalog,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "leaderboard"))
	metrics := leaderboardmetrics.NewPrometheus(obs.Registry)

	svc := leaderboardservice.NewLeaderboardService(
		reader,
		eventBus.Broadcast(),
		catalog,
		logger,
		metrics,
		obs.Tracer,
		cfg.Leaderboard.RecomputeInterval,
	)

	lr := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, obs.Tracer, obs.Registry)
	if err := lr.Configure(ctx, leaderboardhandlers.NewLeaderboardHandlers(svc, logger, obs.Tracer, metrics)); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	logger.InfoContext(ctx, "Leaderboard module ready",
		slog.Duration("recompute_interval", cfg.Leaderboard.RecomputeInterval))
	return &Module{LeaderboardService: svc, logger: logger, done: make(chan struct{})}, nil
}

// Run blocks until ctx is done or Close is called.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	select {
	case <-ctx.Done():
	case <-m.done:
	}
	m.logger.Info("Leaderboard module stopped")
}

// Close releases Run. The shared router is closed by the app.
func (m *Module) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}
