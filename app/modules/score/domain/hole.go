package scoredomain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HoleCount is the number of holes on a scorecard.
const HoleCount = 18

// PickupSentinel is the wire value that marks a pickup hole.
const PickupSentinel = "P"

// HoleScore is the recorded outcome of one hole: either a stroke count or a
// pickup. The zero value means nothing has been recorded.
type HoleScore struct {
	strokes int
	pickup  bool
}

// Stroked returns a score of n strokes. n must be at least 1.
func Stroked(n int) HoleScore {
	return HoleScore{strokes: n}
}

// Pickup returns the pickup score.
func Pickup() HoleScore {
	return HoleScore{pickup: true}
}

// IsZero reports whether no score has been recorded.
func (s HoleScore) IsZero() bool { return !s.pickup && s.strokes == 0 }

// IsPickup reports whether the hole was picked up.
func (s HoleScore) IsPickup() bool { return s.pickup }

// Strokes returns the stroke count and true for a stroked score.
func (s HoleScore) Strokes() (int, bool) {
	if s.pickup || s.strokes == 0 {
		return 0, false
	}
	return s.strokes, true
}

func (s HoleScore) String() string {
	switch {
	case s.pickup:
		return PickupSentinel
	case s.strokes == 0:
		return "-"
	default:
		return strconv.Itoa(s.strokes)
	}
}

// MarshalJSON writes a stroke count as a number and a pickup as "P".
func (s HoleScore) MarshalJSON() ([]byte, error) {
	switch {
	case s.pickup:
		return []byte(`"` + PickupSentinel + `"`), nil
	case s.strokes == 0:
		return []byte("null"), nil
	default:
		return []byte(strconv.Itoa(s.strokes)), nil
	}
}

// UnmarshalJSON converts the wire form into a HoleScore. Numbers below 1 and
// empty strings are treated as not recorded.
func (s *HoleScore) UnmarshalJSON(data []byte) error {
	*s = HoleScore{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("hole score: %w", err)
		}
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, PickupSentinel) {
			*s = Pickup()
			return nil
		}
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("hole score: unrecognised value %q", raw)
		}
		if n >= 1 {
			*s = Stroked(n)
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("hole score: %w", err)
	}
	if n != math.Trunc(n) {
		return fmt.Errorf("hole score: non-integer value %v", n)
	}
	if n >= 1 {
		*s = Stroked(int(n))
	}
	return nil
}

// Distance is an optional prize measurement. Placeholders ("-", empty
// strings) and non-positive values decode as not recorded.
type Distance struct {
	value float64
	set   bool
}

// Measured returns a recorded distance.
func Measured(v float64) Distance {
	if v <= 0 {
		return Distance{}
	}
	return Distance{value: v, set: true}
}

// Value returns the distance and whether one was recorded.
func (d Distance) Value() (float64, bool) { return d.value, d.set }

// IsZero reports whether no distance was recorded.
func (d Distance) IsZero() bool { return !d.set }

func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.value)
}

func (d *Distance) UnmarshalJSON(data []byte) error {
	*d = Distance{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("distance: %w", err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil
		}
		*d = Measured(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*d = Measured(v)
	return nil
}

// HoleRecord is one participant's recorded outcome for one hole.
type HoleRecord struct {
	Score                HoleScore  `json:"score,omitzero"`
	Putts                *int       `json:"putts,omitempty"`
	FairwayInRegulation  bool       `json:"fairwayInRegulation,omitempty"`
	GreenInRegulation    bool       `json:"greenInRegulation,omitempty"`
	ClosestToPinDistance Distance   `json:"closestToPinDistance,omitzero"`
	LongestDriveDistance Distance   `json:"longestDriveDistance,omitzero"`
	PrizeRecordedAt      *time.Time `json:"prizeRecordedAt,omitempty"`
}

// IsEmpty reports whether nothing at all has been recorded on the hole.
func (h HoleRecord) IsEmpty() bool {
	return h.Score.IsZero() && h.Putts == nil && !h.FairwayInRegulation && !h.GreenInRegulation &&
		h.ClosestToPinDistance.IsZero() && h.LongestDriveDistance.IsZero()
}

// Normalize enforces record invariants: a pickup never carries putts and a
// negative putt count is not a recording.
func (h HoleRecord) Normalize() HoleRecord {
	if h.Score.IsPickup() || (h.Putts != nil && *h.Putts < 0) {
		h.Putts = nil
	}
	return h
}

// PuttCount returns the recorded putts and whether any were recorded.
func (h HoleRecord) PuttCount() (int, bool) {
	if h.Putts == nil {
		return 0, false
	}
	return *h.Putts, true
}

// IsThreePutt reports whether the hole currently has three or more putts.
func (h HoleRecord) IsThreePutt() bool {
	n, ok := h.PuttCount()
	return ok && n >= 3
}

// Scorecard holds the eighteen hole records of a participant. Index 0 is hole 1.
// On the wire it is an object keyed by hole number with empty holes omitted.
type Scorecard [HoleCount]HoleRecord

// ValidHole reports whether n is a hole number on the card.
func ValidHole(n int) bool { return n >= 1 && n <= HoleCount }

// Hole returns the record for hole n (1-based). Out of range holes are empty.
func (c *Scorecard) Hole(n int) HoleRecord {
	if !ValidHole(n) {
		return HoleRecord{}
	}
	return c[n-1]
}

// Set replaces the record for hole n.
func (c *Scorecard) Set(n int, rec HoleRecord) error {
	if !ValidHole(n) {
		return fmt.Errorf("%w: %d", ErrInvalidHole, n)
	}
	c[n-1] = rec.Normalize()
	return nil
}

// ScoredHoles returns the number of holes with a recorded score, pickups included.
func (c *Scorecard) ScoredHoles() int {
	n := 0
	for i := range c {
		if !c[i].Score.IsZero() {
			n++
		}
	}
	return n
}

// HasThreePutt reports whether any hole currently carries three or more putts.
func (c *Scorecard) HasThreePutt() bool {
	for i := range c {
		if c[i].IsThreePutt() {
			return true
		}
	}
	return false
}

// LatestThreePuttHole returns the highest numbered hole with three or more
// putts, or 0 when none qualifies.
func (c *Scorecard) LatestThreePuttHole() int {
	for i := HoleCount - 1; i >= 0; i-- {
		if c[i].IsThreePutt() {
			return i + 1
		}
	}
	return 0
}

func (c Scorecard) MarshalJSON() ([]byte, error) {
	out := make(map[string]HoleRecord, HoleCount)
	for i := range c {
		if c[i].IsEmpty() {
			continue
		}
		out[strconv.Itoa(i+1)] = c[i]
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts an object keyed by hole number. Keys that are not a
// hole number are ignored so a partially malformed document still loads.
func (c *Scorecard) UnmarshalJSON(data []byte) error {
	*c = Scorecard{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scorecard: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil || !ValidHole(n) {
			continue
		}
		var rec HoleRecord
		if err := json.Unmarshal(raw[k], &rec); err != nil {
			continue
		}
		c[n-1] = rec.Normalize()
	}
	return nil
}
