package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const (
	cleanupQueue       = "round_cleanup"
	cleanupMaxAttempts = 10
	metricsService     = "river"
)

// Metrics is satisfied by roundmetrics.RoundMetrics.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService schedules cascade retries and owns the worker lifecycle.
type QueueService interface {
	ScheduleRoundCleanup(ctx context.Context, roundID string) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs round cleanup jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics Metrics
}

// NewService opens a pgx pool on dsn, brings River's schema up to date and
// builds a client with the cleanup worker registered.
func NewService(ctx context.Context, repo RoundCascader, logger *slog.Logger, dsn string, metrics Metrics) (*Service, error) {
	s := &Service{
		logger:  logger.With(attr.String("component", "river_queue")),
		metrics: metrics,
	}

	err := s.measure(ctx, "initialize_service", func() error {
		pool, err := openPool(ctx, dsn)
		if err != nil {
			return err
		}
		client, err := newClient(ctx, pool, repo, s.logger, metrics)
		if err != nil {
			pool.Close()
			return err
		}
		s.pool, s.client = pool, client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Round queue service initialized")
	return s, nil
}

// River needs pgx directly; the bun connection cannot be shared.
func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func newClient(ctx context.Context, pool *pgxpool.Pool, repo RoundCascader, logger *slog.Logger, metrics Metrics) (*river.Client[pgx.Tx], error) {
	driver := riverpgxv5.New(pool)

	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return nil, fmt.Errorf("failed to migrate River schema: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRoundCleanupWorker(repo, logger, metrics))

	client, err := river.NewClient(driver, &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			cleanupQueue:       {MaxWorkers: 5},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}
	return client, nil
}

// measure records attempt, outcome and duration for one queue operation.
func (s *Service) measure(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operation, metricsService)
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operation, metricsService, time.Since(start))
	}()

	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "Queue operation failed",
			attr.String("operation", operation),
			attr.Error(err),
		)
		s.metrics.RecordOperationFailure(ctx, operation, metricsService)
		return err
	}
	s.metrics.RecordOperationSuccess(ctx, operation, metricsService)
	return nil
}

func (s *Service) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Starting round queue service")
	return s.measure(ctx, "start_service", func() error {
		if err := s.client.Start(ctx); err != nil {
			return fmt.Errorf("failed to start River client: %w", err)
		}
		return nil
	})
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping round queue service")
	defer s.pool.Close()
	return s.measure(ctx, "stop_service", func() error {
		if err := s.client.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop River client: %w", err)
		}
		return nil
	})
}

// ScheduleRoundCleanup queues a cleanup job for roundID. Scheduling the same
// round again while a job is pending is a no-op.
func (s *Service) ScheduleRoundCleanup(ctx context.Context, roundID string) error {
	return s.measure(ctx, "schedule_round_cleanup", func() error {
		res, err := s.client.Insert(ctx, RoundCleanupJob{RoundID: roundID}, &river.InsertOpts{
			Queue:       cleanupQueue,
			MaxAttempts: cleanupMaxAttempts,
			UniqueOpts:  river.UniqueOpts{ByArgs: true},
		})
		if err != nil {
			return fmt.Errorf("failed to schedule round cleanup job: %w", err)
		}
		s.logger.InfoContext(ctx, "Round cleanup job scheduled",
			attr.RoundID(roundID),
			slog.Int64("job_id", res.Job.ID),
			slog.Bool("duplicate", res.UniqueSkippedAsDuplicate),
		)
		return nil
	})
}
