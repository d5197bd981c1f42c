package rounddomain

import (
	"strings"
	"time"

	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// Status is the play status carried inside a snapshot.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// EntryType distinguishes individual entries from team entries.
type EntryType string

const (
	EntryPlayer EntryType = "player"
	EntryTeam   EntryType = "team"
)

// DefaultHandicap is used when a participant joins without one.
const DefaultHandicap = 18

// Snapshot is one participant's full round record. It is always written as
// a whole document; a field cleared here is absent from the stored copy.
type Snapshot struct {
	ID                string                `json:"id"`
	RoundID           string                `json:"roundId,omitempty"`
	PlayerID          string                `json:"playerId,omitempty"`
	PlayerName        string                `json:"playerName,omitempty"`
	EntryType         EntryType             `json:"entryType,omitempty"`
	TeamName          string                `json:"teamName,omitempty"`
	Handicap          int                   `json:"handicap"`
	Course            string                `json:"course,omitempty"`
	Tees              string                `json:"tees,omitempty"`
	RoundName         string                `json:"name,omitempty"`
	Date              string                `json:"date,omitempty"`
	CurrentHole       int                   `json:"currentHole,omitempty"`
	Holes             scoredomain.Scorecard `json:"holes"`
	Status            Status                `json:"status,omitempty"`
	LastThreePuttTime *time.Time            `json:"lastThreePuttTime,omitempty"`
	LastThreePuttHole *int                  `json:"lastThreePuttHole,omitempty"`
	TotalScore        *int                  `json:"totalScore,omitempty"`
	StablefordPoints  *int                  `json:"stablefordPoints,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	SubmittedAt       *time.Time            `json:"submittedAt,omitempty"`
	ArchivedAt        *time.Time            `json:"archivedAt,omitempty"`
}

// Identity is the display identity used for ranking and viewer matching.
// It is empty when the snapshot carries neither a player id nor a name.
func (s *Snapshot) Identity() string {
	if id := strings.TrimSpace(s.PlayerID); id != "" {
		return id
	}
	return strings.TrimSpace(s.PlayerName)
}

// DisplayName is what a leaderboard shows for the participant.
func (s *Snapshot) DisplayName() string {
	if s.EntryType == EntryTeam && s.TeamName != "" {
		return s.TeamName
	}
	if s.PlayerName != "" {
		return s.PlayerName
	}
	return s.PlayerID
}

// HasTotalScore reports whether a finite total was recorded at submission.
func (s *Snapshot) HasTotalScore() bool { return s.TotalScore != nil }

// Clone returns a deep copy so callers can edit without aliasing.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	for i := range c.Holes {
		h := &c.Holes[i]
		if h.Putts != nil {
			v := *h.Putts
			h.Putts = &v
		}
		if h.PrizeRecordedAt != nil {
			v := *h.PrizeRecordedAt
			h.PrizeRecordedAt = &v
		}
	}
	c.LastThreePuttTime = cloneTime(s.LastThreePuttTime)
	c.LastThreePuttHole = cloneInt(s.LastThreePuttHole)
	c.TotalScore = cloneInt(s.TotalScore)
	c.StablefordPoints = cloneInt(s.StablefordPoints)
	c.SubmittedAt = cloneTime(s.SubmittedAt)
	c.ArchivedAt = cloneTime(s.ArchivedAt)
	return &c
}

// RecordHole replaces the whole record for one hole.
//
// Putts are refused on a pickup. Prize distances are only accepted on holes
// the round configures for that prize; prizes may be nil when the descriptor
// is unavailable, in which case distances are refused too.
func (s *Snapshot) RecordHole(hole int, rec scoredomain.HoleRecord, prizes *Round, now time.Time) error {
	if !scoredomain.ValidHole(hole) {
		return scoredomain.ErrInvalidHole
	}
	if rec.Score.IsPickup() && rec.Putts != nil {
		return scoredomain.ErrPuttsOnPickup
	}
	if !rec.ClosestToPinDistance.IsZero() && !prizes.PrizeConfigured(hole, PrizeClosestToPin) {
		return ErrPrizeNotOnHole
	}
	if !rec.LongestDriveDistance.IsZero() && !prizes.PrizeConfigured(hole, PrizeLongestDrive) {
		return ErrPrizeNotOnHole
	}

	prev := s.Holes.Hole(hole)
	rec.PrizeRecordedAt = prizeTimestamp(prev, rec, now)
	if err := s.Holes.Set(hole, rec); err != nil {
		return err
	}
	s.refreshThreePutt(hole, now)
	s.UpdatedAt = now
	return nil
}

// StepScore applies a score stepper press on a hole. par may be 0 when the
// course is unknown.
func (s *Snapshot) StepScore(hole, delta, par int, now time.Time) error {
	if !scoredomain.ValidHole(hole) {
		return scoredomain.ErrInvalidHole
	}
	rec := scoredomain.StepScore(s.Holes.Hole(hole), delta, par)
	if err := s.Holes.Set(hole, rec); err != nil {
		return err
	}
	s.refreshThreePutt(hole, now)
	s.UpdatedAt = now
	return nil
}

// StepPutts applies a putts stepper press on a hole.
func (s *Snapshot) StepPutts(hole, delta int, now time.Time) error {
	if !scoredomain.ValidHole(hole) {
		return scoredomain.ErrInvalidHole
	}
	rec, err := scoredomain.StepPutts(s.Holes.Hole(hole), delta)
	if err != nil {
		return err
	}
	if err := s.Holes.Set(hole, rec); err != nil {
		return err
	}
	s.refreshThreePutt(hole, now)
	s.UpdatedAt = now
	return nil
}

// SetCurrentHole moves the cursor, clamped to 1-18.
func (s *Snapshot) SetCurrentHole(hole int, now time.Time) {
	s.CurrentHole = min(max(hole, 1), scoredomain.HoleCount)
	s.UpdatedAt = now
}

// refreshThreePutt keeps the three-putt timestamp in step with the card after
// an edit to hole. Touching a hole that holds three or more putts restamps
// it. Otherwise the timestamp is only cleared once no hole on the card still
// qualifies.
func (s *Snapshot) refreshThreePutt(hole int, now time.Time) {
	if s.Holes.Hole(hole).IsThreePutt() {
		t := now
		h := hole
		s.LastThreePuttTime = &t
		s.LastThreePuttHole = &h
		return
	}

	latest := s.Holes.LatestThreePuttHole()
	if latest == 0 {
		s.LastThreePuttTime = nil
		s.LastThreePuttHole = nil
		return
	}
	if s.LastThreePuttHole != nil && *s.LastThreePuttHole == hole {
		s.LastThreePuttHole = &latest
	}
}

// prizeTimestamp is restamped whenever a prize distance changes and dropped
// when both distances are cleared.
func prizeTimestamp(prev, next scoredomain.HoleRecord, now time.Time) *time.Time {
	if next.ClosestToPinDistance.IsZero() && next.LongestDriveDistance.IsZero() {
		return nil
	}
	if prev.ClosestToPinDistance == next.ClosestToPinDistance &&
		prev.LongestDriveDistance == next.LongestDriveDistance &&
		prev.PrizeRecordedAt != nil {
		return cloneTime(prev.PrizeRecordedAt)
	}
	t := now
	return &t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
