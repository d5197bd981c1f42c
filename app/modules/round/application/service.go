package roundservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/events"
	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-bot/internal/metrics/roundmetrics"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/golf-bot/internal/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RoundService"

// CleanupScheduler queues a retry of the round descriptor cascade after a
// permanent delete could not finish it inline.
type CleanupScheduler interface {
	ScheduleRoundCleanup(ctx context.Context, roundID string) error
}

// RoundService implements the Service interface.
type RoundService struct {
	repo       rounddb.Repository
	logger     *slog.Logger
	metrics    roundmetrics.RoundMetrics
	tracer     trace.Tracer
	db         *bun.DB
	publisher  message.Publisher
	catalog    *course.Catalog
	clock      roundutil.Clock
	dateParser roundutil.DateParser
	validator  roundutil.RoundValidator
	cleanup    CleanupScheduler
}

// NewRoundService creates a new RoundService. publisher and cleanup may be nil.
func NewRoundService(
	repo rounddb.Repository,
	logger *slog.Logger,
	metrics roundmetrics.RoundMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	publisher message.Publisher,
	catalog *course.Catalog,
	clock roundutil.Clock,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = roundmetrics.NewNoop()
	}
	if catalog == nil {
		catalog = course.DefaultCatalog()
	}
	if clock == nil {
		clock = roundutil.RealClock{}
	}
	return &RoundService{
		repo:       repo,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		publisher:  publisher,
		catalog:    catalog,
		clock:      clock,
		dateParser: roundutil.NewDateParser(),
		validator:  roundutil.NewRoundValidator(),
	}
}

// SetCleanupScheduler wires the queue used to retry descriptor cascades.
func (s *RoundService) SetCleanupScheduler(c CleanupScheduler) {
	s.cleanup = c
}

func (s *RoundService) now() time.Time {
	return s.clock.NowUTC()
}

// notifyChanged publishes a snapshot-changed event. Publishing is best-effort:
// the write already happened and watchers also refresh on their next event.
func (s *RoundService) notifyChanged(ctx context.Context, roundID, scorecardID string, c rounddomain.Collection) {
	if s.publisher == nil || roundID == "" {
		return
	}
	msg, err := events.NewMessage(ctx, events.RoundSnapshotChangedV1, events.SnapshotChangedPayloadV1{
		RoundID:     roundID,
		ScorecardID: scorecardID,
		Collection:  string(c),
		ChangedAt:   s.now(),
	})
	if err == nil {
		err = s.publisher.Publish(events.RoundSnapshotChangedV1, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish snapshot change",
			attr.ExtractCorrelationID(ctx),
			attr.RoundID(roundID),
			attr.ScorecardID(scorecardID),
			attr.Error(err),
		)
	}
}

// unwrap turns an operation result into the public (value, error) shape.
// Domain failures surface as their error.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}

// operationFunc is one service operation. Go methods cannot take type
// parameters, so the helpers below are functions over *RoundService.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry runs op inside a span and records attempt, outcome and
// duration. A panic in op becomes an error for the caller.
func withTelemetry[S any, F any](
	s *RoundService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	span := trace.SpanFromContext(ctx)
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	}
	logger := s.logger.With(
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)
	started := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	defer func() {
		if r := recover(); r != nil {
			result = results.OperationResult[S, F]{}
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			logger.ErrorContext(ctx, "Recovered from panic", attr.Error(err))
		}
		switch {
		case err != nil:
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
		default:
			s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
		}
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(started))
		span.End()
	}()

	logger.DebugContext(ctx, "Operation triggered")
	result, err = op(ctx)
	switch {
	case err != nil:
		err = fmt.Errorf("%s: %w", operationName, err)
		logger.ErrorContext(ctx, "Operation failed", attr.Error(err))
	case result.IsFailure():
		logger.WarnContext(ctx, "Operation returned failure result", attr.Any("failure_payload", *result.Failure))
	default:
		logger.InfoContext(ctx, "Operation completed")
	}
	return result, err
}

// runInTx runs fn in a transaction. Without a database fn gets a nil IDB,
// which the test fakes accept.
func runInTx[S any, F any](
	s *RoundService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
