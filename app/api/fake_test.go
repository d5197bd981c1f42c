package api

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// FakeRoundService implements roundservice.Service for handler testing.
// Unset funcs return zero values.
type FakeRoundService struct {
	trace []string

	CreateRoundFunc       func(ctx context.Context, input roundutil.CreateRoundInput) (*rounddomain.Round, error)
	GetRoundFunc          func(ctx context.Context, roundID string) (*rounddomain.Round, error)
	LookupRoundFunc       func(ctx context.Context, joinCode string) (*rounddomain.Round, error)
	JoinRoundFunc         func(ctx context.Context, roundID string, input roundservice.JoinRoundInput) (*rounddomain.Snapshot, error)
	GetScorecardFunc      func(ctx context.Context, scorecardID string) (*roundservice.LocatedSnapshot, error)
	RecordHoleFunc        func(ctx context.Context, scorecardID string, hole int, rec scoredomain.HoleRecord, adminOverride bool) (*rounddomain.Snapshot, error)
	AdjustHoleFunc        func(ctx context.Context, scorecardID string, hole int, field roundservice.AdjustField, delta int, adminOverride bool) (*rounddomain.Snapshot, error)
	SetCurrentHoleFunc    func(ctx context.Context, scorecardID string, hole int) (*rounddomain.Snapshot, error)
	SubmitRoundFunc       func(ctx context.Context, scorecardID string, adminOverride bool) (*rounddomain.Snapshot, error)
	ArchiveRoundFunc      func(ctx context.Context, scorecardID string) (*rounddomain.Snapshot, error)
	RestoreRoundFunc      func(ctx context.Context, scorecardID string) (*roundservice.LocatedSnapshot, error)
	DeletePermanentlyFunc func(ctx context.Context, scorecardID string) (*roundservice.DeleteResult, error)
	DeleteAllArchivedFunc func(ctx context.Context) (*roundservice.BulkDeleteResult, error)
	RenamePlayerFunc      func(ctx context.Context, oldName, newName string) (*roundservice.RenameResult, error)
	StatsFunc             func(ctx context.Context) (*roundservice.Stats, error)
	ExportRoundFunc       func(ctx context.Context, roundID string) (*roundservice.Export, error)
}

var _ roundservice.Service = (*FakeRoundService)(nil)

func NewFakeRoundService() *FakeRoundService {
	return &FakeRoundService{trace: []string{}}
}

func (f *FakeRoundService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundService) Trace() []string {
	return f.trace
}

func (f *FakeRoundService) CreateRound(ctx context.Context, input roundutil.CreateRoundInput) (*rounddomain.Round, error) {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, input)
	}
	return &rounddomain.Round{}, nil
}

func (f *FakeRoundService) GetRound(ctx context.Context, roundID string) (*rounddomain.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, roundID)
	}
	return &rounddomain.Round{ID: roundID}, nil
}

func (f *FakeRoundService) LookupRound(ctx context.Context, joinCode string) (*rounddomain.Round, error) {
	f.record("LookupRound")
	if f.LookupRoundFunc != nil {
		return f.LookupRoundFunc(ctx, joinCode)
	}
	return &rounddomain.Round{JoinCode: joinCode}, nil
}

func (f *FakeRoundService) JoinRound(ctx context.Context, roundID string, input roundservice.JoinRoundInput) (*rounddomain.Snapshot, error) {
	f.record("JoinRound")
	if f.JoinRoundFunc != nil {
		return f.JoinRoundFunc(ctx, roundID, input)
	}
	return &rounddomain.Snapshot{RoundID: roundID}, nil
}

func (f *FakeRoundService) GetScorecard(ctx context.Context, scorecardID string) (*roundservice.LocatedSnapshot, error) {
	f.record("GetScorecard")
	if f.GetScorecardFunc != nil {
		return f.GetScorecardFunc(ctx, scorecardID)
	}
	return &roundservice.LocatedSnapshot{Snapshot: &rounddomain.Snapshot{ID: scorecardID}}, nil
}

func (f *FakeRoundService) RecordHole(ctx context.Context, scorecardID string, hole int, rec scoredomain.HoleRecord, adminOverride bool) (*rounddomain.Snapshot, error) {
	f.record("RecordHole")
	if f.RecordHoleFunc != nil {
		return f.RecordHoleFunc(ctx, scorecardID, hole, rec, adminOverride)
	}
	return &rounddomain.Snapshot{ID: scorecardID}, nil
}

func (f *FakeRoundService) AdjustHole(ctx context.Context, scorecardID string, hole int, field roundservice.AdjustField, delta int, adminOverride bool) (*rounddomain.Snapshot, error) {
	f.record("AdjustHole")
	if f.AdjustHoleFunc != nil {
		return f.AdjustHoleFunc(ctx, scorecardID, hole, field, delta, adminOverride)
	}
	return &rounddomain.Snapshot{ID: scorecardID}, nil
}

func (f *FakeRoundService) SetCurrentHole(ctx context.Context, scorecardID string, hole int) (*rounddomain.Snapshot, error) {
	f.record("SetCurrentHole")
	if f.SetCurrentHoleFunc != nil {
		return f.SetCurrentHoleFunc(ctx, scorecardID, hole)
	}
	return &rounddomain.Snapshot{ID: scorecardID, CurrentHole: hole}, nil
}

func (f *FakeRoundService) SubmitRound(ctx context.Context, scorecardID string, adminOverride bool) (*rounddomain.Snapshot, error) {
	f.record("SubmitRound")
	if f.SubmitRoundFunc != nil {
		return f.SubmitRoundFunc(ctx, scorecardID, adminOverride)
	}
	return &rounddomain.Snapshot{ID: scorecardID}, nil
}

func (f *FakeRoundService) ArchiveRound(ctx context.Context, scorecardID string) (*rounddomain.Snapshot, error) {
	f.record("ArchiveRound")
	if f.ArchiveRoundFunc != nil {
		return f.ArchiveRoundFunc(ctx, scorecardID)
	}
	return &rounddomain.Snapshot{ID: scorecardID}, nil
}

func (f *FakeRoundService) RestoreRound(ctx context.Context, scorecardID string) (*roundservice.LocatedSnapshot, error) {
	f.record("RestoreRound")
	if f.RestoreRoundFunc != nil {
		return f.RestoreRoundFunc(ctx, scorecardID)
	}
	return &roundservice.LocatedSnapshot{Snapshot: &rounddomain.Snapshot{ID: scorecardID}}, nil
}

func (f *FakeRoundService) DeletePermanently(ctx context.Context, scorecardID string) (*roundservice.DeleteResult, error) {
	f.record("DeletePermanently")
	if f.DeletePermanentlyFunc != nil {
		return f.DeletePermanentlyFunc(ctx, scorecardID)
	}
	return &roundservice.DeleteResult{ScorecardID: scorecardID}, nil
}

func (f *FakeRoundService) DeleteAllArchived(ctx context.Context) (*roundservice.BulkDeleteResult, error) {
	f.record("DeleteAllArchived")
	if f.DeleteAllArchivedFunc != nil {
		return f.DeleteAllArchivedFunc(ctx)
	}
	return &roundservice.BulkDeleteResult{}, nil
}

func (f *FakeRoundService) RenamePlayer(ctx context.Context, oldName, newName string) (*roundservice.RenameResult, error) {
	f.record("RenamePlayer")
	if f.RenamePlayerFunc != nil {
		return f.RenamePlayerFunc(ctx, oldName, newName)
	}
	return &roundservice.RenameResult{}, nil
}

func (f *FakeRoundService) Stats(ctx context.Context) (*roundservice.Stats, error) {
	f.record("Stats")
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx)
	}
	return &roundservice.Stats{}, nil
}

func (f *FakeRoundService) ExportRound(ctx context.Context, roundID string) (*roundservice.Export, error) {
	f.record("ExportRound")
	if f.ExportRoundFunc != nil {
		return f.ExportRoundFunc(ctx, roundID)
	}
	return &roundservice.Export{Filename: "round.xlsx"}, nil
}

// FakeLeaderboardService implements leaderboardservice.Service for handler testing.
type FakeLeaderboardService struct {
	GetLeaderboardFunc func(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (*leaderboarddomain.Board, error)
	WatchFunc          func(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (<-chan leaderboarddomain.Board, error)
}

var _ leaderboardservice.Service = (*FakeLeaderboardService)(nil)

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (*leaderboarddomain.Board, error) {
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, roundID, viewer)
	}
	return &leaderboarddomain.Board{RoundID: roundID}, nil
}

func (f *FakeLeaderboardService) Rebuild(ctx context.Context, roundID string) (*leaderboarddomain.Board, error) {
	return f.GetLeaderboard(ctx, roundID, leaderboarddomain.Viewer{})
}

func (f *FakeLeaderboardService) Watch(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (<-chan leaderboarddomain.Board, error) {
	if f.WatchFunc != nil {
		return f.WatchFunc(ctx, roundID, viewer)
	}
	ch := make(chan leaderboarddomain.Board)
	close(ch)
	return ch, nil
}
