// Package bundb opens the Postgres connection shared by the repositories.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService holds the bun connection and the repositories built on it.
type DBService struct {
	Round rounddb.Repository
	db    *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to dsn, verifies the connection and registers
// the round models.
func NewBunDBService(ctx context.Context, dsn string, logger *slog.Logger) (*DBService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqldb, err := pgConn(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bunDB(sqldb)
	db.RegisterModel((*rounddb.Round)(nil), (*rounddb.Document)(nil))

	logger.InfoContext(ctx, "Database connection established")

	return &DBService{
		Round: rounddb.NewRepository(db),
		db:    db,
	}, nil
}

// bunDB returns a new bun.DB for given sql.DB connection pool.
func bunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
