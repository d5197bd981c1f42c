package testutils

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	roundmigrations "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-bot/config"
	"github.com/Black-And-White-Club/golf-bot/integration_tests/containers"
	"github.com/Black-And-White-Club/golf-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/golf-bot/internal/eventbus"
)

// TestEnvironment holds the Postgres container and the connections built on it.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	DB            *bun.DB
	DBService     *bundb.DBService
	EventBus      eventbus.EventBus
	Config        *config.Config
	Logger        *slog.Logger
	T             *testing.T
}

// NewTestEnvironment starts Postgres, runs the round migrations and opens
// an in-memory event bus.
func NewTestEnvironment(t *testing.T) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		T:             t,
	}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	dbService, err := bundb.NewBunDBService(ctx, dsn, env.Logger)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to create DB service: %w", err)
	}
	env.DBService = dbService
	env.DB = dbService.GetDB()

	if err := runMigrations(ctx, env.DB); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn},
	}
	env.EventBus = eventbus.NewInMemory(env.Logger)
	return env, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, roundmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate round tables: %w", err)
	}
	return nil
}

// Reset empties the round tables between tests.
func (env *TestEnvironment) Reset() {
	env.T.Helper()
	if err := CleanRoundTables(env.Ctx, env.DB); err != nil {
		env.T.Fatalf("failed to clean round tables: %v", err)
	}
}

type closer struct {
	name  string
	close func() error
}

// Cleanup releases the bus, the database and the container, in that order.
// Errors are logged so one failing step does not skip the rest.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}

	var steps []closer
	if env.EventBus != nil {
		steps = append(steps, closer{"event bus", env.EventBus.Close})
	}
	if env.DBService != nil {
		steps = append(steps, closer{"database", env.DBService.Close})
	}
	if env.PgContainer != nil {
		steps = append(steps, closer{"postgres container", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return env.PgContainer.Terminate(ctx)
		}})
	}

	for _, step := range steps {
		if err := step.close(); err != nil {
			log.Printf("cleanup: closing %s: %v", step.name, err)
		}
	}
}
