package roundservice

import (
	"context"
	"errors"
	"fmt"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/golf-bot/internal/results"
	"github.com/uptrace/bun"
)

// SubmitRound moves an active scorecard to the completed collection with its
// totals precomputed. Under admin override a completed round is recomputed
// and rewritten in place.
func (s *RoundService) SubmitRound(ctx context.Context, scorecardID string, adminOverride bool) (*rounddomain.Snapshot, error) {
	var from rounddomain.Collection
	submitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		loc, err := s.locate(ctx, db, scorecardID)
		if errors.Is(err, ErrScorecardNotFound) {
			return results.FailureResult[*rounddomain.Snapshot, error](err), nil
		}
		if err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, err
		}
		from = loc.Collection

		if loc.State == rounddomain.StateCompleted && adminOverride {
			if err := s.writeBack(ctx, db, loc); err != nil {
				return results.OperationResult[*rounddomain.Snapshot, error]{}, err
			}
			return results.SuccessResult[*rounddomain.Snapshot, error](loc.Snapshot), nil
		}

		if _, err := rounddomain.Transition(loc.State, rounddomain.ActionSubmit, loc.Snapshot); err != nil {
			if loc.State == rounddomain.StateCompleted {
				err = fmt.Errorf("%w: %w", rounddomain.ErrRoundSubmitted, err)
			}
			return results.FailureResult[*rounddomain.Snapshot, error](err), nil
		}

		snap := loc.Snapshot
		now := s.now()
		s.finalize(snap)
		snap.SubmittedAt = &now
		snap.UpdatedAt = now
		if err := s.repo.PutDocument(ctx, db, rounddomain.CollectionCompleted, snap.ID, snap); err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, fmt.Errorf("failed to write completed round: %w", err)
		}
		return results.SuccessResult[*rounddomain.Snapshot, error](snap), nil
	}

	snap, err := unwrap(withTelemetry(s, ctx, "SubmitRound", scorecardID, func(ctx context.Context) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		return runInTx(s, ctx, submitTx)
	}))
	if err != nil {
		return nil, err
	}

	// The completed copy is authoritative from here; leftovers in the active
	// locations are shadowed by it on the leaderboard.
	if from == rounddomain.CollectionScorecards {
		s.removeActive(ctx, snap)
	}
	s.notifyChanged(ctx, snap.RoundID, snap.ID, rounddomain.CollectionCompleted)
	return snap, nil
}

// removeActive deletes the full record and active index entry, logging
// failures instead of returning them.
func (s *RoundService) removeActive(ctx context.Context, snap *rounddomain.Snapshot) {
	if err := s.repo.DeleteDocument(ctx, nil, rounddomain.CollectionScorecards, snap.ID); err != nil {
		s.logger.WarnContext(ctx, "Could not remove submitted scorecard",
			attr.ExtractCorrelationID(ctx),
			attr.ScorecardID(snap.ID),
			attr.Error(err),
		)
	}
	if snap.RoundID == "" {
		return
	}
	if err := s.repo.DeleteDocument(ctx, nil, rounddomain.CollectionActive, rounddomain.ActiveKey(snap.RoundID, snap.ID)); err != nil {
		s.logger.WarnContext(ctx, "Could not remove active index entry",
			attr.ExtractCorrelationID(ctx),
			attr.RoundID(snap.RoundID),
			attr.ScorecardID(snap.ID),
			attr.Error(err),
		)
	}
}

// ArchiveRound soft-deletes an active or completed round. Round details
// missing from the record are filled in from the round descriptor.
func (s *RoundService) ArchiveRound(ctx context.Context, scorecardID string) (*rounddomain.Snapshot, error) {
	archiveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		loc, err := s.locate(ctx, db, scorecardID)
		if errors.Is(err, ErrScorecardNotFound) {
			return results.FailureResult[*rounddomain.Snapshot, error](err), nil
		}
		if err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, err
		}
		if _, err := rounddomain.Transition(loc.State, rounddomain.ActionArchive, loc.Snapshot); err != nil {
			return results.FailureResult[*rounddomain.Snapshot, error](err), nil
		}

		snap := loc.Snapshot
		if err := s.backfillFromRound(ctx, db, snap); err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, err
		}
		// The stored row's updated_at records the move; the document keeps
		// its own edit time so a restore gives back the same record.
		now := s.now()
		snap.ArchivedAt = &now

		if err := s.repo.PutDocument(ctx, db, rounddomain.CollectionArchived, snap.ID, snap); err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, fmt.Errorf("failed to write archived round: %w", err)
		}
		if err := s.repo.DeleteDocument(ctx, db, loc.Collection, snap.ID); err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, fmt.Errorf("failed to remove %s copy: %w", loc.Collection, err)
		}
		if loc.Collection == rounddomain.CollectionScorecards && snap.RoundID != "" {
			if err := s.repo.DeleteDocument(ctx, db, rounddomain.CollectionActive, rounddomain.ActiveKey(snap.RoundID, snap.ID)); err != nil {
				return results.OperationResult[*rounddomain.Snapshot, error]{}, fmt.Errorf("failed to remove active index entry: %w", err)
			}
		}
		return results.SuccessResult[*rounddomain.Snapshot, error](snap), nil
	}

	snap, err := unwrap(withTelemetry(s, ctx, "ArchiveRound", scorecardID, func(ctx context.Context) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		return runInTx(s, ctx, archiveTx)
	}))
	if err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, snap.RoundID, snap.ID, rounddomain.CollectionArchived)
	return snap, nil
}

func (s *RoundService) backfillFromRound(ctx context.Context, db bun.IDB, snap *rounddomain.Snapshot) error {
	if snap.RoundID == "" || (snap.Course != "" && snap.Tees != "" && snap.Date != "" && snap.RoundName != "") {
		return nil
	}
	round, err := s.repo.GetRound(ctx, db, snap.RoundID)
	if errors.Is(err, rounddb.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get round for backfill: %w", err)
	}
	if snap.Course == "" {
		snap.Course = round.Course
	}
	if snap.Tees == "" {
		snap.Tees = round.Tees
	}
	if snap.Date == "" {
		snap.Date = round.Date
	}
	if snap.RoundName == "" {
		snap.RoundName = round.Name
	}
	return nil
}

// RestoreRound brings an archived round back: to completed when it carries a
// total score, otherwise to active with its index entry recreated.
func (s *RoundService) RestoreRound(ctx context.Context, scorecardID string) (*LocatedSnapshot, error) {
	restoreTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*LocatedSnapshot, error], error) {
		snap, err := s.repo.GetDocument(ctx, db, rounddomain.CollectionArchived, scorecardID)
		if errors.Is(err, rounddb.ErrNotFound) {
			if _, lerr := s.locate(ctx, db, scorecardID); lerr == nil {
				return results.FailureResult[*LocatedSnapshot, error](fmt.Errorf("%w: scorecard is not archived", rounddomain.ErrInvalidTransition)), nil
			}
			return results.FailureResult[*LocatedSnapshot, error](ErrScorecardNotFound), nil
		}
		if err != nil {
			return results.OperationResult[*LocatedSnapshot, error]{}, fmt.Errorf("failed to read archived round: %w", err)
		}

		target, err := rounddomain.Transition(rounddomain.StateArchived, rounddomain.ActionRestore, snap)
		if err != nil {
			return results.FailureResult[*LocatedSnapshot, error](err), nil
		}

		snap.ArchivedAt = nil
		home, _ := rounddomain.Home(target)

		if target == rounddomain.StateCompleted {
			snap.Status = rounddomain.StatusFinished
			if err := s.repo.PutDocument(ctx, db, home, snap.ID, snap); err != nil {
				return results.OperationResult[*LocatedSnapshot, error]{}, fmt.Errorf("failed to restore completed round: %w", err)
			}
		} else {
			snap.Status = rounddomain.StatusActive
			if err := s.writeActive(ctx, db, snap); err != nil {
				return results.OperationResult[*LocatedSnapshot, error]{}, err
			}
		}

		if err := s.repo.DeleteDocument(ctx, db, rounddomain.CollectionArchived, snap.ID); err != nil {
			return results.OperationResult[*LocatedSnapshot, error]{}, fmt.Errorf("failed to remove archived copy: %w", err)
		}
		return results.SuccessResult[*LocatedSnapshot, error](&LocatedSnapshot{Snapshot: snap, Collection: home, State: target}), nil
	}

	loc, err := unwrap(withTelemetry(s, ctx, "RestoreRound", scorecardID, func(ctx context.Context) (results.OperationResult[*LocatedSnapshot, error], error) {
		return runInTx(s, ctx, restoreTx)
	}))
	if err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, loc.Snapshot.RoundID, loc.Snapshot.ID, loc.Collection)
	return loc, nil
}

// DeletePermanently removes an archived round for good, then deletes the
// round descriptor if nothing references it any more. Deleting a record that
// is already gone succeeds. A cascade that fails is logged and queued for
// retry without failing the delete.
func (s *RoundService) DeletePermanently(ctx context.Context, scorecardID string) (*DeleteResult, error) {
	res, err := unwrap(withTelemetry(s, ctx, "DeletePermanently", scorecardID, func(ctx context.Context) (results.OperationResult[*DeleteResult, error], error) {
		return s.deletePermanentlyLogic(ctx, scorecardID)
	}))
	if err != nil {
		return nil, err
	}
	if res.Deleted {
		s.notifyChanged(ctx, res.RoundID, res.ScorecardID, rounddomain.CollectionArchived)
	}
	return res, nil
}

func (s *RoundService) deletePermanentlyLogic(ctx context.Context, scorecardID string) (results.OperationResult[*DeleteResult, error], error) {
	res := &DeleteResult{ScorecardID: scorecardID}

	snap, err := s.repo.GetDocument(ctx, nil, rounddomain.CollectionArchived, scorecardID)
	if errors.Is(err, rounddb.ErrNotFound) {
		loc, lerr := s.locate(ctx, nil, scorecardID)
		if lerr == nil {
			_, terr := rounddomain.Transition(loc.State, rounddomain.ActionDelete, loc.Snapshot)
			return results.FailureResult[*DeleteResult, error](terr), nil
		}
		if !errors.Is(lerr, ErrScorecardNotFound) {
			return results.OperationResult[*DeleteResult, error]{}, lerr
		}
		return results.SuccessResult[*DeleteResult, error](res), nil
	}
	if err != nil {
		return results.OperationResult[*DeleteResult, error]{}, fmt.Errorf("failed to read archived round: %w", err)
	}

	if err := s.repo.DeleteDocument(ctx, nil, rounddomain.CollectionArchived, scorecardID); err != nil {
		return results.OperationResult[*DeleteResult, error]{}, fmt.Errorf("failed to delete archived round: %w", err)
	}
	res.Deleted = true
	res.RoundID = snap.RoundID

	if snap.RoundID != "" {
		deleted, err := s.cascadeRound(ctx, snap.RoundID)
		if err != nil {
			s.logger.WarnContext(ctx, "Round descriptor cascade failed",
				attr.ExtractCorrelationID(ctx),
				attr.RoundID(snap.RoundID),
				attr.Error(err),
			)
			s.scheduleCleanup(ctx, snap.RoundID)
		}
		res.RoundDeleted = deleted
	}
	return results.SuccessResult[*DeleteResult, error](res), nil
}

// cascadeRound deletes the round descriptor when no snapshot in any
// collection still points at it. Two concurrent callers may both see zero;
// the delete is idempotent so that is harmless.
func (s *RoundService) cascadeRound(ctx context.Context, roundID string) (bool, error) {
	refs, err := s.repo.CountRoundReferences(ctx, nil, roundID)
	if err != nil {
		return false, fmt.Errorf("failed to count round references: %w", err)
	}
	if refs > 0 {
		s.metrics.RecordCascadeDelete(ctx, false)
		return false, nil
	}
	if err := s.repo.DeleteRound(ctx, nil, roundID); err != nil {
		return false, fmt.Errorf("failed to delete round: %w", err)
	}
	s.metrics.RecordCascadeDelete(ctx, true)
	return true, nil
}

func (s *RoundService) scheduleCleanup(ctx context.Context, roundID string) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.ScheduleRoundCleanup(ctx, roundID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to schedule round cleanup",
			attr.ExtractCorrelationID(ctx),
			attr.RoundID(roundID),
			attr.Error(err),
		)
	}
}

// DeleteAllArchived permanently deletes every archived round, one at a time
// through the same path as DeletePermanently. Individual failures are
// counted and the run continues.
func (s *RoundService) DeleteAllArchived(ctx context.Context) (*BulkDeleteResult, error) {
	return unwrap(withTelemetry(s, ctx, "DeleteAllArchived", "all", func(ctx context.Context) (results.OperationResult[*BulkDeleteResult, error], error) {
		archived, err := s.repo.ListDocuments(ctx, nil, rounddomain.CollectionArchived, "")
		if err != nil {
			return results.OperationResult[*BulkDeleteResult, error]{}, fmt.Errorf("failed to list archived rounds: %w", err)
		}

		out := &BulkDeleteResult{}
		touched := map[string]bool{}
		for _, snap := range archived {
			res, err := unwrap(s.deletePermanentlyLogic(ctx, snap.ID))
			if err != nil {
				out.Failed++
				s.logger.WarnContext(ctx, "Failed to delete archived round",
					attr.ExtractCorrelationID(ctx),
					attr.ScorecardID(snap.ID),
					attr.Error(err),
				)
				continue
			}
			if res.Deleted {
				out.Deleted++
				touched[res.RoundID] = true
			}
			if res.RoundDeleted {
				out.RoundsDeleted++
			}
		}
		for roundID := range touched {
			s.notifyChanged(ctx, roundID, "", rounddomain.CollectionArchived)
		}
		return results.SuccessResult[*BulkDeleteResult, error](out), nil
	}))
}
