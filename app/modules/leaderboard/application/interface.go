package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
)

// Service defines the leaderboard read operations.
type Service interface {
	GetLeaderboard(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (*leaderboarddomain.Board, error)
	// Rebuild builds the viewer-neutral board in response to a bus event.
	Rebuild(ctx context.Context, roundID string) (*leaderboarddomain.Board, error)
	Watch(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (<-chan leaderboarddomain.Board, error)
}

var _ Service = (*LeaderboardService)(nil)
