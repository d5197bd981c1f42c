package roundservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/Black-And-White-Club/golf-bot/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const joinCodeAttempts = 5

// CreateRound validates the request and stores a new round descriptor with a
// fresh join code.
func (s *RoundService) CreateRound(ctx context.Context, input roundutil.CreateRoundInput) (*rounddomain.Round, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddomain.Round, error], error) {
		return s.createRoundLogic(ctx, db, input)
	}

	return unwrap(withTelemetry(s, ctx, "CreateRound", input.Name, func(ctx context.Context) (results.OperationResult[*rounddomain.Round, error], error) {
		return runInTx(s, ctx, createTx)
	}))
}

func (s *RoundService) createRoundLogic(ctx context.Context, db bun.IDB, input roundutil.CreateRoundInput) (results.OperationResult[*rounddomain.Round, error], error) {
	if problems := s.validator.ValidateRoundInput(input); len(problems) > 0 {
		return results.FailureResult[*rounddomain.Round, error](&ValidationError{Problems: problems}), nil
	}

	now := s.now()
	date, err := s.dateParser.ParseRoundDate(input.Date, now)
	if err != nil {
		return results.FailureResult[*rounddomain.Round, error](&ValidationError{Problems: []string{err.Error()}}), nil
	}

	courseName := strings.TrimSpace(input.Course)
	tees := strings.TrimSpace(input.Tees)
	if c, ok := s.catalog.Lookup(courseName); ok && tees == "" && len(c.Tees) > 0 {
		tees = c.Tees[0].Key
	}

	holes := input.Holes
	if holes == 0 {
		holes = scoredomain.HoleCount
	}

	code, err := s.uniqueJoinCode(ctx, db)
	if err != nil {
		return results.OperationResult[*rounddomain.Round, error]{}, err
	}

	round := &rounddomain.Round{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		JoinCode:       code,
		Course:         courseName,
		Tees:           tees,
		Holes:          holes,
		Date:           date,
		ScoringFormat:  rounddomain.ScoringFormatStableford,
		HolePrizes:     input.HolePrizes,
		InvitedPlayers: []string{},
		CreatedBy:      strings.TrimSpace(input.CreatedBy),
		CreatedAt:      now,
	}
	if round.HolePrizes == nil {
		round.HolePrizes = []rounddomain.HolePrize{}
	}

	if err := s.repo.CreateRound(ctx, db, round); err != nil {
		return results.OperationResult[*rounddomain.Round, error]{}, fmt.Errorf("failed to create round: %w", err)
	}
	return results.SuccessResult[*rounddomain.Round, error](round), nil
}

// uniqueJoinCode draws codes until one is unused.
func (s *RoundService) uniqueJoinCode(ctx context.Context, db bun.IDB) (string, error) {
	for range joinCodeAttempts {
		code, err := rounddomain.NewJoinCode()
		if err != nil {
			return "", err
		}
		_, err = s.repo.GetRoundByJoinCode(ctx, db, code)
		if errors.Is(err, rounddb.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
	}
	return "", fmt.Errorf("no unused join code after %d attempts", joinCodeAttempts)
}

// GetRound retrieves a round descriptor by id.
func (s *RoundService) GetRound(ctx context.Context, roundID string) (*rounddomain.Round, error) {
	return unwrap(withTelemetry(s, ctx, "GetRound", roundID, func(ctx context.Context) (results.OperationResult[*rounddomain.Round, error], error) {
		return s.loadRound(ctx, nil, roundID)
	}))
}

// LookupRound finds a round by join code, ignoring case and surrounding space.
func (s *RoundService) LookupRound(ctx context.Context, joinCode string) (*rounddomain.Round, error) {
	return unwrap(withTelemetry(s, ctx, "LookupRound", joinCode, func(ctx context.Context) (results.OperationResult[*rounddomain.Round, error], error) {
		code, err := rounddomain.NormalizeJoinCode(joinCode)
		if err != nil {
			return results.FailureResult[*rounddomain.Round, error](err), nil
		}
		round, err := s.repo.GetRoundByJoinCode(ctx, nil, code)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return results.FailureResult[*rounddomain.Round, error](ErrRoundNotFound), nil
			}
			return results.OperationResult[*rounddomain.Round, error]{}, fmt.Errorf("failed to look up round: %w", err)
		}
		return results.SuccessResult[*rounddomain.Round, error](round), nil
	}))
}

func (s *RoundService) loadRound(ctx context.Context, db bun.IDB, roundID string) (results.OperationResult[*rounddomain.Round, error], error) {
	round, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return results.FailureResult[*rounddomain.Round, error](ErrRoundNotFound), nil
		}
		return results.OperationResult[*rounddomain.Round, error]{}, fmt.Errorf("failed to get round: %w", err)
	}
	return results.SuccessResult[*rounddomain.Round, error](round), nil
}

// JoinRound creates the participant's scorecard and active index entry and
// adds them to the round's invite list.
func (s *RoundService) JoinRound(ctx context.Context, roundID string, input JoinRoundInput) (*rounddomain.Snapshot, error) {
	joinTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		return s.joinRoundLogic(ctx, db, roundID, input)
	}

	snap, err := unwrap(withTelemetry(s, ctx, "JoinRound", roundID, func(ctx context.Context) (results.OperationResult[*rounddomain.Snapshot, error], error) {
		return runInTx(s, ctx, joinTx)
	}))
	if err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, snap.RoundID, snap.ID, rounddomain.CollectionScorecards)
	return snap, nil
}

func (s *RoundService) joinRoundLogic(ctx context.Context, db bun.IDB, roundID string, input JoinRoundInput) (results.OperationResult[*rounddomain.Snapshot, error], error) {
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.PlayerName = strings.TrimSpace(input.PlayerName)
	if input.PlayerID == "" && input.PlayerName == "" {
		return results.FailureResult[*rounddomain.Snapshot, error](rounddomain.ErrMissingIdentity), nil
	}

	roundResult, err := s.loadRound(ctx, db, roundID)
	if err != nil || roundResult.IsFailure() {
		return results.OperationResult[*rounddomain.Snapshot, error]{Failure: roundResult.Failure}, err
	}
	round := *roundResult.Success

	if _, err := rounddomain.Transition(rounddomain.StateInvited, rounddomain.ActionJoin, nil); err != nil {
		return results.FailureResult[*rounddomain.Snapshot, error](err), nil
	}

	handicap := rounddomain.DefaultHandicap
	if input.Handicap != nil {
		handicap = *input.Handicap
	}
	tees := input.Tees
	if tees == "" {
		tees = round.Tees
	}
	entryType := input.EntryType
	if entryType == "" {
		entryType = rounddomain.EntryPlayer
	}

	now := s.now()
	snap := &rounddomain.Snapshot{
		ID:          uuid.NewString(),
		RoundID:     round.ID,
		PlayerID:    input.PlayerID,
		PlayerName:  input.PlayerName,
		EntryType:   entryType,
		TeamName:    strings.TrimSpace(input.TeamName),
		Handicap:    handicap,
		Course:      round.Course,
		Tees:        tees,
		RoundName:   round.Name,
		Date:        round.Date,
		CurrentHole: 1,
		Status:      rounddomain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.writeActive(ctx, db, snap); err != nil {
		return results.OperationResult[*rounddomain.Snapshot, error]{}, err
	}

	if round.AddInvitedPlayer(input.PlayerName) {
		if err := s.repo.UpdateInvitedPlayers(ctx, db, round.ID, round.InvitedPlayers); err != nil {
			return results.OperationResult[*rounddomain.Snapshot, error]{}, fmt.Errorf("failed to update invited players: %w", err)
		}
	}

	return results.SuccessResult[*rounddomain.Snapshot, error](snap), nil
}
