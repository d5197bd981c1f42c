package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/api"
	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	"github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard"
	"github.com/Black-And-White-Club/golf-bot/app/modules/round"
	roundmigrations "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-bot/config"
	"github.com/Black-And-White-Club/golf-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/golf-bot/internal/eventbus"
	"github.com/Black-And-White-Club/golf-bot/internal/observability"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun/migrate"
)

const shutdownTimeout = 10 * time.Second

// App holds every long-lived component of the service.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bundb.DBService
	EventBus      eventbus.EventBus
	Router        *message.Router
	Modules       *Modules
	HTTPServer    *http.Server
	MetricsServer *http.Server

	logger *slog.Logger
}

// Modules groups the domain modules.
type Modules struct {
	RoundModule       *round.Module
	LeaderboardModule *leaderboard.Module
}

// Initialize builds the application from cfg: database and migrations,
// event bus, modules, then the HTTP surface.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	app.logger = obs.Logger

	catalog, err := loadCatalog(cfg.Courses)
	if err != nil {
		return err
	}

	app.DB, err = bundb.NewBunDBService(ctx, cfg.Postgres.DSN, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database service: %w", err)
	}
	if err := app.migrate(ctx); err != nil {
		return err
	}

	if cfg.NATS.URL != "" {
		app.EventBus, err = eventbus.NewNATS(cfg.NATS.URL, app.logger)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
	} else {
		app.logger.WarnContext(ctx, "NATS URL not set, using in-memory event bus")
		app.EventBus = eventbus.NewInMemory(app.logger)
	}

	app.Router, err = message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(app.logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}

	roundModule, err := round.NewRoundModule(ctx, cfg, obs, app.DB.GetDB(), app.DB.Round, app.EventBus, catalog)
	if err != nil {
		return fmt.Errorf("failed to initialize round module: %w", err)
	}

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, app.DB.Round, app.EventBus, app.Router, catalog)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	app.Modules = &Modules{
		RoundModule:       roundModule,
		LeaderboardModule: leaderboardModule,
	}

	handlers := api.NewHandlers(
		roundModule.RoundService,
		leaderboardModule.LeaderboardService,
		catalog,
		app.logger,
		cfg.HTTP.AllowedOrigins,
	)
	opts := api.Options{AllowedOrigins: cfg.HTTP.AllowedOrigins}
	if cfg.Observability.MetricsAddress == "" {
		opts.Registry = obs.Registry
	} else {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
		app.MetricsServer = &http.Server{Addr: cfg.Observability.MetricsAddress, Handler: mux}
	}
	app.HTTPServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(handlers, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Run starts the modules, the Watermill router and the HTTP servers, then
// blocks until ctx is done or a server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go app.Modules.RoundModule.Run(ctx, &wg)
	go app.Modules.LeaderboardModule.Run(ctx, &wg)

	errCh := make(chan error, 3)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()

	serve := func(name string, srv *http.Server) {
		app.logger.Info("HTTP server listening", attr.String("server", name), attr.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("api", app.HTTPServer)
	if app.MetricsServer != nil {
		go serve("metrics", app.MetricsServer)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		app.logger.Error("Component failed, shutting down", attr.Error(runErr))
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := app.HTTPServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Warn("HTTP server shutdown failed", attr.Error(err))
	}
	if app.MetricsServer != nil {
		_ = app.MetricsServer.Shutdown(shutdownCtx)
	}

	wg.Wait()
	return runErr
}

// Close releases the router, modules, bus and database in reverse order of
// construction.
func (app *App) Close() {
	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			app.logger.Warn("Failed to close Watermill router", attr.Error(err))
		}
	}
	if app.Modules != nil {
		if err := app.Modules.LeaderboardModule.Close(); err != nil {
			app.logger.Warn("Failed to close leaderboard module", attr.Error(err))
		}
		if err := app.Modules.RoundModule.Close(); err != nil {
			app.logger.Warn("Failed to close round module", attr.Error(err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			app.logger.Warn("Failed to close event bus", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.logger.Warn("Failed to close database", attr.Error(err))
		}
	}
}

// migrate applies pending round migrations under bun's migration lock.
func (app *App) migrate(ctx context.Context) error {
	migrator := migrate.NewMigrator(app.DB.GetDB(), roundmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if !group.IsZero() {
		app.logger.InfoContext(ctx, "Applied migrations", attr.String("group", group.String()))
	}
	return nil
}

func loadCatalog(cfg config.CoursesConfig) (*course.Catalog, error) {
	catalog := course.DefaultCatalog()
	if cfg.File == "" {
		return catalog, nil
	}
	extra, err := course.LoadCatalogFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load course catalog: %w", err)
	}
	return catalog.Merge(extra), nil
}
