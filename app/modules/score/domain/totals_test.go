package scoredomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// flatCourse is par 4 everywhere with stroke index equal to the hole number.
type flatCourse struct{}

func (flatCourse) HoleInfo(hole int, _ string) (int, int, bool) {
	if !ValidHole(hole) {
		return 0, 0, false
	}
	return 4, hole, true
}

func intPtr(v int) *int { return &v }

func TestCalculateTotals(t *testing.T) {
	var card Scorecard
	_ = card.Set(1, HoleRecord{Score: Stroked(4), Putts: intPtr(2), FairwayInRegulation: true})
	_ = card.Set(2, HoleRecord{Score: Stroked(6), Putts: intPtr(3), GreenInRegulation: true})
	_ = card.Set(3, HoleRecord{Score: Pickup()})
	_ = card.Set(10, HoleRecord{Score: Stroked(3), Putts: intPtr(0)})

	got := CalculateTotals(&card, flatCourse{}, "white", 2)

	want := Totals{
		HasCourseData: true,
		Front9: Split{
			Score:       10,
			Par:         8,
			Stableford:  4,
			Putts:       5,
			HolesPlayed: 3,
			FairwaysHit: 1,
			GreensHit:   1,
		},
		Back9: Split{Score: 3, Par: 4, Stableford: 3, HolesPlayed: 1},
	}
	// Hole 1: one stroke, adjusted par 5, score 4 -> 3 points.
	// Hole 2: one stroke, adjusted par 5, score 6 -> 1 point.
	// Hole 10: no stroke, score 3 -> 3 points.
	want.Total = want.Front9
	want.Total.add(want.Back9)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CalculateTotals mismatch (-want +got):\n%s", diff)
	}
	if got.Total.ToPar() != 1 {
		t.Fatalf("expected +1 to par, got %d", got.Total.ToPar())
	}
}

func TestCalculateTotals_NoCourseData(t *testing.T) {
	var card Scorecard
	_ = card.Set(1, HoleRecord{Score: Stroked(5)})
	_ = card.Set(18, HoleRecord{Score: Pickup()})

	got := CalculateTotals(&card, nil, "", 10)
	if got.HasCourseData {
		t.Fatal("expected no course data")
	}
	if got.Total.Score != 5 || got.Total.Par != 0 || got.Total.Stableford != 0 {
		t.Fatalf("unexpected totals: %+v", got.Total)
	}
	if got.Total.HolesPlayed != 2 {
		t.Fatalf("expected pickups to count as played, got %d", got.Total.HolesPlayed)
	}
}

func TestCalculateTotals_HolesPlayedCountsEveryRecordedScore(t *testing.T) {
	var card Scorecard
	scores := []HoleScore{Stroked(3), Pickup(), Stroked(7), Pickup(), Stroked(4)}
	wantScore := 0
	for i, s := range scores {
		_ = card.Set(i+1, HoleRecord{Score: s})
		if n, ok := s.Strokes(); ok {
			wantScore += n
		}
	}

	got := CalculateTotals(&card, flatCourse{}, "", 0)
	if got.Total.HolesPlayed != len(scores) {
		t.Fatalf("HolesPlayed = %d, want %d", got.Total.HolesPlayed, len(scores))
	}
	if got.Total.Score != wantScore {
		t.Fatalf("Score = %d, want %d", got.Total.Score, wantScore)
	}
	if got.Total.Par != 12 {
		t.Fatalf("Par = %d, want 12 (pickups excluded)", got.Total.Par)
	}
}

func TestNetScore(t *testing.T) {
	if got := NetScore(90, 18); got != 72 {
		t.Fatalf("NetScore(90, 18) = %d", got)
	}
	if got := NetScore(10, 18); got != -8 {
		t.Fatalf("NetScore(10, 18) = %d", got)
	}
}

func TestFormatToPar(t *testing.T) {
	for diff, want := range map[int]string{0: "E", 3: "+3", -2: "-2"} {
		if got := FormatToPar(diff); got != want {
			t.Errorf("FormatToPar(%d) = %q, want %q", diff, got, want)
		}
	}
}
