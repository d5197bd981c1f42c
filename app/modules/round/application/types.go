package roundservice

import (
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
)

// JoinRoundInput describes a participant joining a round.
type JoinRoundInput struct {
	PlayerID   string                `json:"playerId"`
	PlayerName string                `json:"playerName"`
	Handicap   *int                  `json:"handicap"`
	Tees       string                `json:"tees"`
	EntryType  rounddomain.EntryType `json:"entryType"`
	TeamName   string                `json:"teamName"`
}

// AdjustField selects which stepper an adjust call presses.
type AdjustField string

const (
	AdjustScore AdjustField = "score"
	AdjustPutts AdjustField = "putts"
)

// LocatedSnapshot is a snapshot together with the collection it lives in.
type LocatedSnapshot struct {
	Snapshot   *rounddomain.Snapshot  `json:"snapshot"`
	Collection rounddomain.Collection `json:"collection"`
	State      rounddomain.State      `json:"state"`
}

// DeleteResult reports a permanent delete. Deleted is false when the record
// was already gone.
type DeleteResult struct {
	ScorecardID  string `json:"scorecardId"`
	RoundID      string `json:"roundId,omitempty"`
	Deleted      bool   `json:"deleted"`
	RoundDeleted bool   `json:"roundDeleted"`
}

// BulkDeleteResult reports a delete-all-archived run.
type BulkDeleteResult struct {
	Deleted       int `json:"deleted"`
	Failed        int `json:"failed"`
	RoundsDeleted int `json:"roundsDeleted"`
}

// RenameResult reports how many records a rename touched.
type RenameResult struct {
	Documents int `json:"documents"`
	Rounds    int `json:"rounds"`
}

// Stats are the admin dashboard counts.
type Stats struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Archived  int `json:"archived"`
	Rounds    int `json:"rounds"`
}

// Export is a rendered scorecard workbook.
type Export struct {
	Filename string
	Data     []byte
}
