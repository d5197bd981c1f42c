package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
)

// FakeService implements leaderboardservice.Service for handler testing.
type FakeService struct {
	trace []string

	GetLeaderboardFunc func(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (*leaderboarddomain.Board, error)
	RebuildFunc        func(ctx context.Context, roundID string) (*leaderboarddomain.Board, error)
	WatchFunc          func(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (<-chan leaderboarddomain.Board, error)
}

var _ leaderboardservice.Service = (*FakeService)(nil)

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) GetLeaderboard(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (*leaderboarddomain.Board, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, roundID, viewer)
	}
	return &leaderboarddomain.Board{RoundID: roundID}, nil
}

func (f *FakeService) Rebuild(ctx context.Context, roundID string) (*leaderboarddomain.Board, error) {
	f.record("Rebuild")
	if f.RebuildFunc != nil {
		return f.RebuildFunc(ctx, roundID)
	}
	return &leaderboarddomain.Board{RoundID: roundID}, nil
}

func (f *FakeService) Watch(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (<-chan leaderboarddomain.Board, error) {
	f.record("Watch")
	if f.WatchFunc != nil {
		return f.WatchFunc(ctx, roundID, viewer)
	}
	ch := make(chan leaderboarddomain.Board)
	close(ch)
	return ch, nil
}
