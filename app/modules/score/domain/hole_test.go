package scoredomain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHoleScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want HoleScore
	}{
		{in: `4`, want: Stroked(4)},
		{in: `4.0`, want: Stroked(4)},
		{in: `"P"`, want: Pickup()},
		{in: `"p"`, want: Pickup()},
		{in: `"5"`, want: Stroked(5)},
		{in: `null`, want: HoleScore{}},
		{in: `0`, want: HoleScore{}},
		{in: `""`, want: HoleScore{}},
	}
	for _, tt := range tests {
		var got HoleScore
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("unmarshal %s = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{`"eagle"`, `4.7`, `"4.5"`} {
		var bad HoleScore
		if err := json.Unmarshal([]byte(in), &bad); err == nil {
			t.Fatalf("expected error for %s, got %v", in, bad)
		}
	}
}

func TestHoleRecord_PickupDropsPutts(t *testing.T) {
	var card Scorecard
	if err := card.Set(7, HoleRecord{Score: Pickup(), Putts: intPtr(2)}); err != nil {
		t.Fatal(err)
	}
	if card.Hole(7).Putts != nil {
		t.Fatal("expected putts to be cleared on pickup")
	}
	if err := card.Set(19, HoleRecord{}); err == nil {
		t.Fatal("expected invalid hole error")
	}
}

func TestScorecard_JSONOmitsClearedFields(t *testing.T) {
	var card Scorecard
	_ = card.Set(1, HoleRecord{Score: Stroked(4), Putts: intPtr(0)})
	_ = card.Set(2, HoleRecord{Score: Pickup()})
	_ = card.Set(3, HoleRecord{ClosestToPinDistance: Measured(2.4)})

	raw, err := json.Marshal(card)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	for _, want := range []string{`"1":{"score":4,"putts":0}`, `"2":{"score":"P"}`, `"closestToPinDistance":2.4`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
	if strings.Contains(body, `"4"`) {
		t.Fatalf("empty hole should be omitted: %s", body)
	}

	// Clearing the putts on hole 1 must remove the field on the next write.
	_ = card.Set(1, HoleRecord{Score: Stroked(4)})
	raw, _ = json.Marshal(card)
	if strings.Contains(string(raw), `"putts"`) {
		t.Fatalf("cleared putts still present: %s", raw)
	}
}

func TestScorecard_UnmarshalToleratesMalformedHoles(t *testing.T) {
	in := `{"1":{"score":5,"putts":2},"x":{"score":3},"25":{"score":4},"3":{"score":"P","putts":3},"4":{"longestDriveDistance":"-"}}`
	var card Scorecard
	if err := json.Unmarshal([]byte(in), &card); err != nil {
		t.Fatal(err)
	}
	if n, _ := card.Hole(1).Score.Strokes(); n != 5 {
		t.Fatalf("hole 1 = %v", card.Hole(1).Score)
	}
	if card.Hole(3).Putts != nil {
		t.Fatal("pickup hole should not carry putts")
	}
	if !card.Hole(4).LongestDriveDistance.IsZero() {
		t.Fatal("placeholder distance should decode as not recorded")
	}
	if card.ScoredHoles() != 2 {
		t.Fatalf("ScoredHoles = %d", card.ScoredHoles())
	}
}

func TestScorecard_ThreePuttScan(t *testing.T) {
	var card Scorecard
	_ = card.Set(2, HoleRecord{Score: Stroked(5), Putts: intPtr(3)})
	_ = card.Set(9, HoleRecord{Score: Stroked(6), Putts: intPtr(4)})
	if !card.HasThreePutt() || card.LatestThreePuttHole() != 9 {
		t.Fatalf("expected latest three-putt on 9, got %d", card.LatestThreePuttHole())
	}
	_ = card.Set(9, HoleRecord{Score: Stroked(5), Putts: intPtr(2)})
	if card.LatestThreePuttHole() != 2 {
		t.Fatalf("expected remaining three-putt on 2, got %d", card.LatestThreePuttHole())
	}
}
