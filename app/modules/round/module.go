package round

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	roundqueue "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/queue"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-bot/config"
	"github.com/Black-And-White-Club/golf-bot/internal/metrics/roundmetrics"
	"github.com/Black-And-White-Club/golf-bot/internal/observability"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the round module.
type Module struct {
	RoundService roundservice.Service
	QueueService roundqueue.QueueService
	logger       *slog.Logger
	done         chan struct{}
	closeOnce    sync.Once
}

// NewRoundModule creates a new instance of the Round module. The River
// cleanup queue is only started when queue.enabled is set; without it a
// failed descriptor cascade is logged and left for the next delete.
func NewRoundModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	roundDB rounddb.Repository,
	publisher message.Publisher,
	catalog *course.Catalog,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "round"))
	metrics := roundmetrics.NewPrometheus(obs.Registry)

	roundService := roundservice.NewRoundService(
		roundDB,
		logger,
		metrics,
		obs.Tracer,
		db,
		publisher,
		catalog,
		roundutil.RealClock{},
	)

	module := &Module{
		RoundService: roundService,
		logger:       logger,
		done:         make(chan struct{}),
	}

	if cfg.Queue.Enabled {
		queueService, err := roundqueue.NewService(ctx, roundDB, logger, cfg.Postgres.DSN, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create round queue service: %w", err)
		}
		roundService.SetCleanupScheduler(queueService)
		module.QueueService = queueService
	}

	return module, nil
}

// Run starts the queue workers, if any, and blocks until ctx is done or
// Close is called.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start round queue service", attr.Error(err))
		}
	}

	select {
	case <-ctx.Done():
	case <-m.done:
	}
	m.logger.Info("Round module stopped")
}

// Close releases Run and stops the queue workers.
func (m *Module) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	if m.QueueService == nil {
		return nil
	}
	if err := m.QueueService.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop round queue service: %w", err)
	}
	return nil
}
