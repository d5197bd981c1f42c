package roundservice

import (
	"context"
	"fmt"
	"strings"

	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	roundexport "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/export"
	"github.com/Black-And-White-Club/golf-bot/internal/results"
	"github.com/uptrace/bun"
)

// RenamePlayer rewrites a player name in every collection and in the invite
// list of every round that names them.
func (s *RoundService) RenamePlayer(ctx context.Context, oldName, newName string) (*RenameResult, error) {
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	var touched []string

	renameTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RenameResult, error], error) {
		if oldName == "" || newName == "" {
			return results.FailureResult[*RenameResult, error](&ValidationError{Problems: []string{"old and new names are required"}}), nil
		}
		if oldName == newName {
			return results.SuccessResult[*RenameResult, error](&RenameResult{}), nil
		}

		docs, err := s.repo.RenamePlayer(ctx, db, oldName, newName)
		if err != nil {
			return results.OperationResult[*RenameResult, error]{}, fmt.Errorf("failed to rename player documents: %w", err)
		}

		rounds, err := s.repo.ListRoundsByInvitee(ctx, db, oldName)
		if err != nil {
			return results.OperationResult[*RenameResult, error]{}, fmt.Errorf("failed to list rounds for player: %w", err)
		}
		res := &RenameResult{Documents: docs}
		for _, r := range rounds {
			if !r.RenameInvitedPlayer(oldName, newName) {
				continue
			}
			if err := s.repo.UpdateInvitedPlayers(ctx, db, r.ID, r.InvitedPlayers); err != nil {
				return results.OperationResult[*RenameResult, error]{}, fmt.Errorf("failed to update invited players: %w", err)
			}
			res.Rounds++
			touched = append(touched, r.ID)
		}
		return results.SuccessResult[*RenameResult, error](res), nil
	}

	res, err := unwrap(withTelemetry(s, ctx, "RenamePlayer", oldName, func(ctx context.Context) (results.OperationResult[*RenameResult, error], error) {
		return runInTx(s, ctx, renameTx)
	}))
	if err != nil {
		return nil, err
	}
	for _, roundID := range touched {
		s.notifyChanged(ctx, roundID, "", "")
	}
	return res, nil
}

// Stats returns the dashboard counts. Active counts full scorecards, not
// index entries.
func (s *RoundService) Stats(ctx context.Context) (*Stats, error) {
	return unwrap(withTelemetry(s, ctx, "Stats", "all", func(ctx context.Context) (results.OperationResult[*Stats, error], error) {
		counts, err := s.repo.CountDocuments(ctx, nil)
		if err != nil {
			return results.OperationResult[*Stats, error]{}, fmt.Errorf("failed to count documents: %w", err)
		}
		rounds, err := s.repo.CountRounds(ctx, nil)
		if err != nil {
			return results.OperationResult[*Stats, error]{}, fmt.Errorf("failed to count rounds: %w", err)
		}
		return results.SuccessResult[*Stats, error](&Stats{
			Active:    counts[rounddomain.CollectionScorecards],
			Completed: counts[rounddomain.CollectionCompleted],
			Archived:  counts[rounddomain.CollectionArchived],
			Rounds:    rounds,
		}), nil
	}))
}

// ExportRound renders the round's current leaderboard and every
// participant's card as a workbook.
func (s *RoundService) ExportRound(ctx context.Context, roundID string) (*Export, error) {
	return unwrap(withTelemetry(s, ctx, "ExportRound", roundID, func(ctx context.Context) (results.OperationResult[*Export, error], error) {
		roundResult, err := s.loadRound(ctx, nil, roundID)
		if err != nil || roundResult.IsFailure() {
			return results.OperationResult[*Export, error]{Failure: roundResult.Failure}, err
		}
		round := *roundResult.Success

		active, err := s.repo.ListDocuments(ctx, nil, rounddomain.CollectionActive, roundID)
		if err != nil {
			return results.OperationResult[*Export, error]{}, fmt.Errorf("failed to list active rounds: %w", err)
		}
		completed, err := s.repo.ListDocuments(ctx, nil, rounddomain.CollectionCompleted, roundID)
		if err != nil {
			return results.OperationResult[*Export, error]{}, fmt.Errorf("failed to list completed rounds: %w", err)
		}

		courseData := s.catalog.CourseData(round.Course)
		board := leaderboarddomain.Build(leaderboarddomain.BuildContext{
			RoundID:   roundID,
			Round:     round,
			Course:    courseData,
			Active:    active,
			Completed: completed,
		})

		data, err := roundexport.Render(roundexport.Input{
			Round:     round,
			Board:     board,
			Snapshots: append(append([]*rounddomain.Snapshot{}, active...), completed...),
			Course:    courseData,
		})
		if err != nil {
			return results.OperationResult[*Export, error]{}, fmt.Errorf("failed to render export: %w", err)
		}
		return results.SuccessResult[*Export, error](&Export{Filename: roundexport.Filename(round), Data: data}), nil
	}))
}
