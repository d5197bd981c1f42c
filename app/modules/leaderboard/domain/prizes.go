package leaderboarddomain

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// ArbitratePrizes finds the current holder of each configured prize: the
// shortest closest-to-pin distance and the longest drive. Unrecorded and
// placeholder distances are ignored. Exact ties go to whoever recorded the
// distance first; when either time is missing, the lowest key wins.
func ArbitratePrizes(prizes []rounddomain.HolePrize, participants []Participant) []PrizeResult {
	results := make([]PrizeResult, 0, len(prizes))
	for _, prize := range prizes {
		res := PrizeResult{HolePrize: prize}

		var bestAt *time.Time
		for _, p := range participants {
			rec := p.Snapshot.Holes.Hole(prize.Hole)
			d, ok := prizeDistance(rec, prize.Type)
			if !ok {
				continue
			}
			if res.Winner != nil && !beats(prize.Type, d, rec.PrizeRecordedAt, res.Winner.Distance, bestAt) {
				continue
			}
			res.Winner = &PrizeWinner{
				ScorecardID: p.Key,
				PlayerName:  p.Snapshot.DisplayName(),
				Distance:    d,
			}
			bestAt = rec.PrizeRecordedAt
		}
		results = append(results, res)
	}
	return results
}

func prizeDistance(rec scoredomain.HoleRecord, t rounddomain.PrizeType) (float64, bool) {
	switch t {
	case rounddomain.PrizeClosestToPin:
		return rec.ClosestToPinDistance.Value()
	case rounddomain.PrizeLongestDrive:
		return rec.LongestDriveDistance.Value()
	default:
		return 0, false
	}
}

// beats reports whether a candidate distance displaces the current best.
// Participants are scanned in key order, so a full tie keeps the incumbent.
func beats(t rounddomain.PrizeType, d float64, at *time.Time, best float64, bestAt *time.Time) bool {
	if d != best {
		if t == rounddomain.PrizeClosestToPin {
			return d < best
		}
		return d > best
	}
	if at == nil || bestAt == nil {
		return false
	}
	return at.Before(*bestAt)
}
