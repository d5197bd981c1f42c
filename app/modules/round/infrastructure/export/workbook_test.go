package roundexport

import (
	"bytes"
	"testing"

	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRender(t *testing.T) {
	catalog := course.DefaultCatalog()
	round := &rounddomain.Round{
		ID:         "r1",
		Name:       "Sunday Comp",
		Course:     "Bonville Golf Resort",
		Tees:       "tallwood",
		Date:       "2026-03-01",
		HolePrizes: []rounddomain.HolePrize{{Hole: 1, Type: rounddomain.PrizeClosestToPin}},
	}

	alice := &rounddomain.Snapshot{ID: "a", RoundID: "r1", PlayerName: "Alice", Handicap: 18, Course: round.Course, Tees: "tallwood"}
	putts := 2
	alice.Holes[0] = scoredomain.HoleRecord{
		Score:                scoredomain.Stroked(4),
		Putts:                &putts,
		FairwayInRegulation:  true,
		ClosestToPinDistance: scoredomain.Measured(3.5),
	}
	alice.Holes[1] = scoredomain.HoleRecord{Score: scoredomain.Pickup()}

	bob := &rounddomain.Snapshot{ID: "b", RoundID: "r1", PlayerName: "Bob/Smith", Handicap: 10, Course: round.Course, Tees: "tallwood"}
	bob.Holes[0] = scoredomain.HoleRecord{Score: scoredomain.Stroked(6)}

	cd := catalog.CourseData(round.Course)
	board := leaderboarddomain.Build(leaderboarddomain.BuildContext{
		RoundID: "r1",
		Round:   round,
		Course:  cd,
		Active:  []*rounddomain.Snapshot{alice, bob},
	})

	data, err := Render(Input{Round: round, Board: board, Snapshots: []*rounddomain.Snapshot{alice, bob}, Course: cd})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 3)
	assert.Equal(t, SummarySheet, sheets[0])
	assert.Equal(t, "1. Alice", sheets[1])
	assert.Equal(t, "2. Bob Smith", sheets[2])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "Player", summary[0][1])
	assert.Equal(t, "Alice", summary[1][1])
	assert.Equal(t, "CTP #1", summary[1][13])

	card, err := f.GetRows("1. Alice")
	require.NoError(t, err)
	require.Len(t, card, 1+scoredomain.HoleCount+3)
	hole1 := card[1]
	assert.Equal(t, "1", hole1[0])
	assert.Equal(t, "4", hole1[3])
	assert.Equal(t, "2", hole1[4])
	assert.Equal(t, "Y", hole1[5])
	assert.Equal(t, "3.5", hole1[8])
	assert.Equal(t, scoredomain.PickupSentinel, card[2][3])
	assert.Equal(t, "Total", card[scoredomain.HoleCount+3][0])
	assert.Equal(t, "4", card[scoredomain.HoleCount+3][3])
}

func TestRender_UnknownCourse(t *testing.T) {
	snap := &rounddomain.Snapshot{ID: "a", PlayerName: "Alice", Course: "Nowhere GC"}
	snap.Holes[0] = scoredomain.HoleRecord{Score: scoredomain.Stroked(5)}
	board := leaderboarddomain.Build(leaderboarddomain.BuildContext{RoundID: "r1", Active: []*rounddomain.Snapshot{snap}})

	data, err := Render(Input{Board: board, Snapshots: []*rounddomain.Snapshot{snap}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	card, err := f.GetRows("1. Alice")
	require.NoError(t, err)
	assert.Equal(t, "", card[1][1], "par is blank without course data")
	assert.Equal(t, "5", card[1][3])
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	first := sheetName(1, "A very long player name that overflows", used)
	second := sheetName(1, "A very long player name that overflows", used)

	assert.LessOrEqual(t, len([]rune(first)), maxSheetName)
	assert.LessOrEqual(t, len([]rune(second)), maxSheetName)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "3. Player", sheetName(3, " :: ", used))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Sunday-Comp_2026-03-01.xlsx", Filename(&rounddomain.Round{Name: "Sunday Comp", Date: "2026-03-01"}))
	assert.Equal(t, "round.xlsx", Filename(nil))
}
