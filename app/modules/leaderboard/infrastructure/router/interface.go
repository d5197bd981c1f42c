package leaderboardrouter

import (
	"context"

	leaderboardhandlers "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/infrastructure/handlers"
)

// Router interface for leaderboard routing.
type Router interface {
	Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error
	Close() error
}

var _ Router = (*LeaderboardRouter)(nil)
