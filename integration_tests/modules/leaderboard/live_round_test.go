//go:build integration

package leaderboardintegration

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	leaderboardservice "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newServices(t *testing.T) (*roundservice.RoundService, *leaderboardservice.LeaderboardService) {
	t.Helper()
	testEnv.T = t
	testEnv.Reset()

	catalog := course.DefaultCatalog()
	tracer := noop.NewTracerProvider().Tracer("test")
	rounds := roundservice.NewRoundService(
		testEnv.DBService.Round,
		testEnv.Logger,
		nil,
		tracer,
		testEnv.DB,
		testEnv.EventBus,
		catalog,
		roundutil.RealClock{},
	)
	boards := leaderboardservice.NewLeaderboardService(
		testEnv.DBService.Round,
		testEnv.EventBus.Broadcast(),
		catalog,
		testEnv.Logger,
		nil,
		tracer,
		0,
	)
	return rounds, boards
}

func recordScore(t *testing.T, rounds *roundservice.RoundService, scorecardID string, hole, strokes int) {
	t.Helper()
	_, err := rounds.RecordHole(testEnv.Ctx, scorecardID, hole, scoredomain.HoleRecord{Score: scoredomain.Stroked(strokes)}, false)
	require.NoError(t, err)
}

func TestLiveRound_LeaderboardFollowsScoring(t *testing.T) {
	rounds, boards := newServices(t)
	ctx := testEnv.Ctx

	round, err := rounds.CreateRound(ctx, roundutil.CreateRoundInput{
		Name:   "Sunday Stableford",
		Course: "Moore Park Golf Course",
		Date:   "2026-10-18",
	})
	require.NoError(t, err)

	handicap := 18
	ana, err := rounds.JoinRound(ctx, round.ID, roundservice.JoinRoundInput{PlayerName: "Ana", Handicap: &handicap})
	require.NoError(t, err)
	ben, err := rounds.JoinRound(ctx, round.ID, roundservice.JoinRoundInput{PlayerName: "Ben", Handicap: &handicap})
	require.NoError(t, err)

	for hole := 1; hole <= 3; hole++ {
		recordScore(t, rounds, ana.ID, hole, 3)
		recordScore(t, rounds, ben.ID, hole, 7)
	}

	board, err := boards.GetLeaderboard(ctx, round.ID, leaderboarddomain.Viewer{PlayerName: "Ben"})
	require.NoError(t, err)
	assert.True(t, board.HasCourseData)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "Ana", board.Entries[0].PlayerName)
	assert.Equal(t, "Ben", board.Entries[1].PlayerName)
	assert.True(t, board.Entries[1].IsViewer)
	assert.False(t, board.Entries[0].Finished)

	_, err = rounds.SubmitRound(ctx, ana.ID, false)
	require.NoError(t, err)

	board, err = boards.GetLeaderboard(ctx, round.ID, leaderboarddomain.Viewer{})
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, ana.ID, board.Entries[0].ScorecardID)
	assert.True(t, board.Entries[0].Finished)

	stats, err := rounds.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 1, stats.Completed)
}

func TestLiveRound_WatchSeesScoreChanges(t *testing.T) {
	rounds, boards := newServices(t)

	round, err := rounds.CreateRound(testEnv.Ctx, roundutil.CreateRoundInput{
		Name:   "Evening Nine",
		Course: "Bonville Golf Resort",
	})
	require.NoError(t, err)
	snap, err := rounds.JoinRound(testEnv.Ctx, round.ID, roundservice.JoinRoundInput{PlayerName: "Cal"})
	require.NoError(t, err)
	// Participants without a score are not ranked yet.
	recordScore(t, rounds, snap.ID, 1, 4)

	ctx, cancel := context.WithTimeout(testEnv.Ctx, 20*time.Second)
	defer cancel()
	updates, err := boards.Watch(ctx, round.ID, leaderboarddomain.Viewer{PlayerName: "Cal"})
	require.NoError(t, err)

	initial := <-updates
	require.Len(t, initial.Entries, 1)
	assert.Equal(t, 1, initial.Entries[0].Totals.Total.HolesPlayed)

	recordScore(t, rounds, snap.ID, 2, 5)

	select {
	case board, ok := <-updates:
		require.True(t, ok)
		require.Len(t, board.Entries, 1)
		assert.True(t, board.Entries[0].IsViewer)
		assert.Equal(t, 2, board.Entries[0].Totals.Total.HolesPlayed)
		assert.NotEqual(t, leaderboarddomain.Fingerprint(initial), leaderboarddomain.Fingerprint(board))
	case <-ctx.Done():
		t.Fatal("no board after recording a score")
	}

	cancel()
	for range updates {
	}
}
