package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// Service defines the round lifecycle operations.
type Service interface {
	// Rounds
	CreateRound(ctx context.Context, input roundutil.CreateRoundInput) (*rounddomain.Round, error)
	GetRound(ctx context.Context, roundID string) (*rounddomain.Round, error)
	LookupRound(ctx context.Context, joinCode string) (*rounddomain.Round, error)
	JoinRound(ctx context.Context, roundID string, input JoinRoundInput) (*rounddomain.Snapshot, error)

	// Scoring
	GetScorecard(ctx context.Context, scorecardID string) (*LocatedSnapshot, error)
	RecordHole(ctx context.Context, scorecardID string, hole int, rec scoredomain.HoleRecord, adminOverride bool) (*rounddomain.Snapshot, error)
	AdjustHole(ctx context.Context, scorecardID string, hole int, field AdjustField, delta int, adminOverride bool) (*rounddomain.Snapshot, error)
	SetCurrentHole(ctx context.Context, scorecardID string, hole int) (*rounddomain.Snapshot, error)

	// Lifecycle
	SubmitRound(ctx context.Context, scorecardID string, adminOverride bool) (*rounddomain.Snapshot, error)
	ArchiveRound(ctx context.Context, scorecardID string) (*rounddomain.Snapshot, error)
	RestoreRound(ctx context.Context, scorecardID string) (*LocatedSnapshot, error)
	DeletePermanently(ctx context.Context, scorecardID string) (*DeleteResult, error)
	DeleteAllArchived(ctx context.Context) (*BulkDeleteResult, error)

	// Admin
	RenamePlayer(ctx context.Context, oldName, newName string) (*RenameResult, error)
	Stats(ctx context.Context) (*Stats, error)
	ExportRound(ctx context.Context, roundID string) (*Export, error)
}

var _ Service = (*RoundService)(nil)
