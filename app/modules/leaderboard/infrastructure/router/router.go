package leaderboardrouter

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/events"
	leaderboardhandlers "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-bot/internal/eventbus"
	"github.com/Black-And-White-Club/golf-bot/internal/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Router metrics are not registered when APP_ENV=test, since every test
// would otherwise register the same collectors again.
const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// retryPolicy covers transient store errors during a rebuild. A change that
// still fails is dropped; the next change rebuilds from scratch anyway.
var retryPolicy = middleware.Retry{
	MaxRetries:      3,
	InitialInterval: 100 * time.Millisecond,
	Multiplier:      2,
}

// LeaderboardRouter consumes snapshot changes from the shared queue
// subscription and publishes rebuilt boards.
type LeaderboardRouter struct {
	router  *message.Router
	bus     eventbus.EventBus
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a LeaderboardRouter on a shared watermill
// router. registry may be nil to skip router metrics.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *LeaderboardRouter {
	return &LeaderboardRouter{
		router:  router,
		bus:     bus,
		logger:  logger,
		tracer:  tracer,
		metrics: routerMetrics(registry),
	}
}

func routerMetrics(registry *prometheus.Registry) *metrics.PrometheusMetricsBuilder {
	if registry == nil || os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue {
		return nil
	}
	builder := metrics.NewPrometheusMetricsBuilder(registry, "golf_bot", "leaderboard")
	return &builder
}

// Configure installs the middleware chain and subscribes the handlers.
func (r *LeaderboardRouter) Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	if r.metrics != nil {
		r.metrics.AddPrometheusRouterMetrics(r.router)
	}

	retry := retryPolicy
	retry.Logger = watermill.NewSlogLogger(r.logger)
	r.router.AddMiddleware(middleware.CorrelationID, retry.Middleware, middleware.Recoverer)

	r.logger.InfoContext(ctx, "Registering leaderboard handlers", slog.Bool("router_metrics", r.metrics != nil))
	subscribe(r, events.RoundSnapshotChangedV1, handlers.HandleSnapshotChanged)
	return nil
}

// subscribe adds handler for topic. The wrapper publishes the handler's
// results itself, so the router gets a handler without a publisher.
func subscribe[T any](
	r *LeaderboardRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	name := "leaderboard." + topic
	r.router.AddNoPublisherHandler(
		name,
		topic,
		r.bus,
		handlerwrapper.WrapTransformingTyped(name, r.logger, r.tracer, r.bus, handler),
	)
}

// Close stops the shared router.
func (r *LeaderboardRouter) Close() error {
	return r.router.Close()
}
