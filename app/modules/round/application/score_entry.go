package roundservice

import (
	"context"
	"errors"
	"fmt"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/Black-And-White-Club/golf-bot/internal/results"
	"github.com/uptrace/bun"
)

// lookupOrder is where a scorecard id is searched for. The active index is
// keyed by round and scorecard together, so it is never searched directly.
var lookupOrder = []rounddomain.Collection{
	rounddomain.CollectionScorecards,
	rounddomain.CollectionCompleted,
	rounddomain.CollectionArchived,
}

// locate finds the authoritative copy of a scorecard.
func (s *RoundService) locate(ctx context.Context, db bun.IDB, scorecardID string) (*LocatedSnapshot, error) {
	for _, c := range lookupOrder {
		snap, err := s.repo.GetDocument(ctx, db, c, scorecardID)
		if errors.Is(err, rounddb.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s/%s: %w", c, scorecardID, err)
		}
		return &LocatedSnapshot{Snapshot: snap, Collection: c, State: rounddomain.StateOf(c)}, nil
	}
	return nil, ErrScorecardNotFound
}

// writeActive stores the full record and its active index entry.
func (s *RoundService) writeActive(ctx context.Context, db bun.IDB, snap *rounddomain.Snapshot) error {
	if err := s.repo.PutDocument(ctx, db, rounddomain.CollectionScorecards, snap.ID, snap); err != nil {
		return fmt.Errorf("failed to write scorecard: %w", err)
	}
	if snap.RoundID == "" {
		return nil
	}
	if err := s.repo.PutDocument(ctx, db, rounddomain.CollectionActive, rounddomain.ActiveKey(snap.RoundID, snap.ID), snap); err != nil {
		return fmt.Errorf("failed to write active index: %w", err)
	}
	return nil
}

// writeBack stores an edited snapshot wherever it currently lives.
func (s *RoundService) writeBack(ctx context.Context, db bun.IDB, loc *LocatedSnapshot) error {
	switch loc.Collection {
	case rounddomain.CollectionScorecards:
		return s.writeActive(ctx, db, loc.Snapshot)
	case rounddomain.CollectionCompleted:
		s.finalize(loc.Snapshot)
		if err := s.repo.PutDocument(ctx, db, loc.Collection, loc.Snapshot.ID, loc.Snapshot); err != nil {
			return fmt.Errorf("failed to write completed round: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: cannot write to %s", rounddomain.ErrInvalidTransition, loc.Collection)
	}
}

// finalize precomputes the totals stored with a finished round.
func (s *RoundService) finalize(snap *rounddomain.Snapshot) {
	totals := scoredomain.CalculateTotals(&snap.Holes, s.catalog.CourseData(snap.Course), snap.Tees, snap.Handicap)
	total := totals.Total.Score
	snap.TotalScore = &total
	snap.StablefordPoints = nil
	if totals.HasCourseData {
		points := totals.Total.Stableford
		snap.StablefordPoints = &points
	}
	snap.Status = rounddomain.StatusFinished
}

// editable locates a scorecard and checks it may be edited.
func (s *RoundService) editable(ctx context.Context, db bun.IDB, scorecardID string, adminOverride bool) (*LocatedSnapshot, error, error) {
	loc, err := s.locate(ctx, db, scorecardID)
	if errors.Is(err, ErrScorecardNotFound) {
		return nil, err, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if err := rounddomain.CanEdit(loc.State, adminOverride); err != nil {
		return nil, err, nil
	}
	return loc, nil, nil
}

// GetScorecard returns a scorecard and where it lives.
func (s *RoundService) GetScorecard(ctx context.Context, scorecardID string) (*LocatedSnapshot, error) {
	return unwrap(withTelemetry(s, ctx, "GetScorecard", scorecardID, func(ctx context.Context) (results.OperationResult[*LocatedSnapshot, error], error) {
		loc, err := s.locate(ctx, nil, scorecardID)
		if errors.Is(err, ErrScorecardNotFound) {
			return results.FailureResult[*LocatedSnapshot, error](err), nil
		}
		if err != nil {
			return results.OperationResult[*LocatedSnapshot, error]{}, err
		}
		return results.SuccessResult[*LocatedSnapshot, error](loc), nil
	}))
}

// RecordHole replaces one hole's record. Under admin override a completed
// round is edited in place and its totals recomputed.
func (s *RoundService) RecordHole(ctx context.Context, scorecardID string, hole int, rec scoredomain.HoleRecord, adminOverride bool) (*rounddomain.Snapshot, error) {
	return s.edit(ctx, "RecordHole", scorecardID, adminOverride, func(ctx context.Context, db bun.IDB, snap *rounddomain.Snapshot) error {
		var round *rounddomain.Round
		if snap.RoundID != "" {
			r, err := s.repo.GetRound(ctx, db, snap.RoundID)
			switch {
			case err == nil:
				round = r
			case !errors.Is(err, rounddb.ErrNotFound):
				return fmt.Errorf("failed to get round: %w", err)
			}
		}
		return snap.RecordHole(hole, rec, round, s.now())
	})
}

// AdjustHole presses the score or putts stepper on one hole.
func (s *RoundService) AdjustHole(ctx context.Context, scorecardID string, hole int, field AdjustField, delta int, adminOverride bool) (*rounddomain.Snapshot, error) {
	return s.edit(ctx, "AdjustHole", scorecardID, adminOverride, func(_ context.Context, _ bun.IDB, snap *rounddomain.Snapshot) error {
		switch field {
		case AdjustScore:
			par := 0
			if cd := s.catalog.CourseData(snap.Course); cd != nil {
				par, _, _ = cd.HoleInfo(hole, snap.Tees)
			}
			return snap.StepScore(hole, delta, par, s.now())
		case AdjustPutts:
			return snap.StepPutts(hole, delta, s.now())
		default:
			return fmt.Errorf("%w: unknown field %q", ErrValidation, field)
		}
	})
}

// SetCurrentHole moves the scorecard's hole cursor.
func (s *RoundService) SetCurrentHole(ctx context.Context, scorecardID string, hole int) (*rounddomain.Snapshot, error) {
	return s.edit(ctx, "SetCurrentHole", scorecardID, false, func(_ context.Context, _ bun.IDB, snap *rounddomain.Snapshot) error {
		snap.SetCurrentHole(hole, s.now())
		return nil
	})
}

// edit runs a read-modify-write on one scorecard. Errors from mutate are
// domain failures; the write itself is infrastructure.
func (s *RoundService) edit(
	ctx context.Context,
	operation, scorecardID string,
	adminOverride bool,
	mutate func(ctx context.Context, db bun.IDB, snap *rounddomain.Snapshot) error,
) (*rounddomain.Snapshot, error) {
	var written rounddomain.Collection
	editTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		loc, failure, err := s.editable(ctx, db, scorecardID, adminOverride)
		if err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, err
		}
		if failure != nil {
			return results.FailureResult[*rounddomain.Snapshot, error](failure), nil
		}

		if err := mutate(ctx, db, loc.Snapshot); err != nil {
			if isDomainError(err) {
				return results.FailureResult[*rounddomain.Snapshot, error](err), nil
			}
			return results.OperationResult[*rounddomain.Snapshot, error]{}, err
		}
		if err := s.writeBack(ctx, db, loc); err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, err
		}
		written = loc.Collection
		return results.SuccessResult[*rounddomain.Snapshot, error](loc.Snapshot), nil
	}

	snap, err := unwrap(withTelemetry(s, ctx, operation, scorecardID, func(ctx context.Context) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		return runInTx(s, ctx, editTx)
	}))
	if err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, snap.RoundID, snap.ID, written)
	return snap, nil
}

// isDomainError reports whether err is a business outcome rather than an
// infrastructure fault.
func isDomainError(err error) bool {
	for _, target := range []error{
		scoredomain.ErrInvalidHole,
		scoredomain.ErrPuttsOnPickup,
		rounddomain.ErrPrizeNotOnHole,
		rounddomain.ErrInvalidTransition,
		rounddomain.ErrRoundSubmitted,
		rounddomain.ErrRoundArchived,
		ErrValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
