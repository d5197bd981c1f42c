package leaderboarddomain

import (
	"strconv"
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// Viewer identifies the participant looking at the board.
type Viewer struct {
	PlayerID   string
	PlayerName string
}

// Matches reports whether the snapshot belongs to the viewer.
func (v Viewer) Matches(s *rounddomain.Snapshot) bool {
	if v.PlayerID != "" && s.PlayerID == v.PlayerID {
		return true
	}
	return v.PlayerName != "" && s.PlayerName == v.PlayerName
}

// BuildContext carries everything one recomputation needs. Nothing is read
// from package state.
type BuildContext struct {
	RoundID string
	// Round may be nil when the descriptor could not be read; the board is
	// then built without prizes.
	Round *rounddomain.Round
	// Course is nil when the course is not in the catalog.
	Course    scoredomain.CourseData
	Active    []*rounddomain.Snapshot
	Completed []*rounddomain.Snapshot
	Viewer    Viewer
}

// Entry is one derived leaderboard row. It is never stored.
type Entry struct {
	Position     int                     `json:"position"`
	ScorecardID  string                  `json:"scorecardId"`
	PlayerID     string                  `json:"playerId,omitempty"`
	PlayerName   string                  `json:"playerName"`
	Handicap     int                     `json:"handicap"`
	Tees         string                  `json:"tees,omitempty"`
	Finished     bool                    `json:"finished"`
	CurrentHole  int                     `json:"currentHole"`
	Totals       scoredomain.Totals      `json:"totals"`
	NetScore     int                     `json:"netScore"`
	ScoreDisplay string                  `json:"scoreDisplay"`
	HoleDisplay  string                  `json:"holeDisplay"`
	IsViewer     bool                    `json:"isViewer"`
	HasSnake     bool                    `json:"hasSnake"`
	Prizes       []rounddomain.HolePrize `json:"prizes,omitempty"`
}

// SnakeHolder is the participant currently holding the three-putt badge.
type SnakeHolder struct {
	ScorecardID string    `json:"scorecardId"`
	PlayerName  string    `json:"playerName"`
	Hole        int       `json:"hole,omitempty"`
	Since       time.Time `json:"since"`
}

// PrizeWinner is the current holder of one configured prize.
type PrizeWinner struct {
	ScorecardID string  `json:"scorecardId"`
	PlayerName  string  `json:"playerName"`
	Distance    float64 `json:"distance"`
}

// PrizeResult pairs a configured prize with its holder, if anyone has
// recorded a distance.
type PrizeResult struct {
	rounddomain.HolePrize
	Winner *PrizeWinner `json:"winner,omitempty"`
}

// Board is a complete leaderboard for one round.
type Board struct {
	RoundID       string        `json:"roundId"`
	HasCourseData bool          `json:"hasCourseData"`
	Entries       []Entry       `json:"entries"`
	Snake         *SnakeHolder  `json:"snake,omitempty"`
	Prizes        []PrizeResult `json:"prizes"`
}

// Build recomputes the whole board from the snapshot set: totals, ranking,
// snake and prizes, in that order.
func Build(ctx BuildContext) Board {
	// Only ranked participants can hold the snake or a prize; anyone else
	// would take a badge that no row on the board shows.
	participants := Scored(Merge(ctx.Active, ctx.Completed))

	board := Board{
		RoundID:       ctx.RoundID,
		HasCourseData: ctx.Course != nil,
		Entries:       Rank(participants, ctx.Course, ctx.Viewer),
		Snake:         Snake(participants),
	}
	if ctx.Round != nil {
		board.Prizes = ArbitratePrizes(ctx.Round.HolePrizes, participants)
	}

	byID := make(map[string]*Entry, len(board.Entries))
	for i := range board.Entries {
		byID[board.Entries[i].ScorecardID] = &board.Entries[i]
	}
	if board.Snake != nil {
		if e, ok := byID[board.Snake.ScorecardID]; ok {
			e.HasSnake = true
		}
	}
	for _, p := range board.Prizes {
		if p.Winner == nil {
			continue
		}
		if e, ok := byID[p.Winner.ScorecardID]; ok {
			e.Prizes = append(e.Prizes, p.HolePrize)
		}
	}
	return board
}

// ViewerEntry returns the viewer's own row, if it is on the board.
func (b Board) ViewerEntry() (Entry, bool) {
	for _, e := range b.Entries {
		if e.IsViewer {
			return e, true
		}
	}
	return Entry{}, false
}

func scoreDisplay(t scoredomain.Totals) string {
	if !t.HasCourseData {
		return strconv.Itoa(t.Total.Score)
	}
	return scoredomain.FormatToPar(t.Total.ToPar()) + " (" + strconv.Itoa(t.Total.Stableford) + ")"
}

// holeDisplay falls back to holes played when the cursor is unset, as on
// documents written before the cursor existed.
func holeDisplay(finished bool, currentHole, holesPlayed int) string {
	switch {
	case finished:
		return "F"
	case scoredomain.ValidHole(currentHole):
		return "H" + strconv.Itoa(currentHole)
	default:
		return "H" + strconv.Itoa(holesPlayed)
	}
}
