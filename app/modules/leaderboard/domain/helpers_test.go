package leaderboarddomain

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// Snapshot shortens fixture declarations.
type Snapshot = rounddomain.Snapshot

var t0 = time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)

// parFour is a par 72-ish course: par 4 everywhere, SI equal to hole number.
type parFour struct{}

func (parFour) HoleInfo(hole int, _ string) (int, int, bool) {
	if !scoredomain.ValidHole(hole) {
		return 0, 0, false
	}
	return 4, hole, true
}

func intp(v int) *int { return &v }

func timep(t time.Time) *time.Time { return &t }

func snap(id, name string, scores ...int) *rounddomain.Snapshot {
	s := &rounddomain.Snapshot{ID: id, PlayerName: name, Status: rounddomain.StatusActive, CurrentHole: len(scores) + 1}
	for i, n := range scores {
		rec := scoredomain.HoleRecord{Score: scoredomain.Stroked(n)}
		if n == 0 {
			rec.Score = scoredomain.Pickup()
		}
		_ = s.Holes.Set(i+1, rec)
	}
	return s
}

func withPutts(s *rounddomain.Snapshot, hole, putts int) *rounddomain.Snapshot {
	rec := s.Holes.Hole(hole)
	rec.Putts = intp(putts)
	_ = s.Holes.Set(hole, rec)
	return s
}
