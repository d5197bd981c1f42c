package scoredomain

import (
	"math"
	"strconv"
)

// CourseData provides par and stroke index for a hole played from a tee.
// A nil CourseData means the course is unknown.
type CourseData interface {
	HoleInfo(hole int, tee string) (par, strokeIndex int, ok bool)
}

// Split is the aggregate of a run of holes (front nine, back nine or the
// whole round).
type Split struct {
	Score       int `json:"score"`
	Par         int `json:"par"`
	Stableford  int `json:"stableford"`
	Putts       int `json:"putts"`
	HolesPlayed int `json:"holesPlayed"`
	FairwaysHit int `json:"fairwaysHit"`
	GreensHit   int `json:"greensHit"`
}

// ToPar returns the score relative to the par of the holes that carry a
// numeric score.
func (s Split) ToPar() int { return s.Score - s.Par }

func (s *Split) add(o Split) {
	s.Score += o.Score
	s.Par += o.Par
	s.Stableford += o.Stableford
	s.Putts += o.Putts
	s.HolesPlayed += o.HolesPlayed
	s.FairwaysHit += o.FairwaysHit
	s.GreensHit += o.GreensHit
}

// Totals is the folded result of a participant's scorecard.
type Totals struct {
	Front9        Split `json:"front9"`
	Back9         Split `json:"back9"`
	Total         Split `json:"total"`
	HasCourseData bool  `json:"hasCourseData"`
}

// CalculateTotals folds a scorecard into front nine, back nine and total.
//
// Pickups count as played but add nothing to score, par or points. Par only
// accumulates on holes with a numeric score and a course entry, so a partial
// round is measured against the holes actually completed.
func CalculateTotals(card *Scorecard, course CourseData, tee string, handicap int) Totals {
	totals := Totals{HasCourseData: course != nil}
	if card == nil {
		return totals
	}

	for i := range card {
		hole := i + 1
		rec := card[i]

		var s Split
		if rec.FairwayInRegulation {
			s.FairwaysHit = 1
		}
		if rec.GreenInRegulation {
			s.GreensHit = 1
		}
		if !rec.Score.IsZero() {
			s.HolesPlayed = 1
		}
		if n, ok := rec.PuttCount(); ok {
			s.Putts = n
		}
		if strokes, ok := rec.Score.Strokes(); ok {
			s.Score = strokes
			if course != nil {
				if par, si, found := course.HoleInfo(hole, tee); found {
					s.Par = par
					s.Stableford = StablefordPoints(rec.Score, par, si, handicap)
				}
			}
		}

		if hole <= 9 {
			totals.Front9.add(s)
		} else {
			totals.Back9.add(s)
		}
		totals.Total.add(s)
	}
	return totals
}

// NetScore subtracts the handicap from the gross score, rounding half away
// from zero.
func NetScore(gross, handicap int) int {
	return int(math.Round(float64(gross) - float64(handicap)))
}

// FormatToPar renders a relative-to-par value: "E" for level, "+3", "-2".
func FormatToPar(diff int) string {
	switch {
	case diff == 0:
		return "E"
	case diff > 0:
		return "+" + strconv.Itoa(diff)
	default:
		return strconv.Itoa(diff)
	}
}
