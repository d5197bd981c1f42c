package scoredomain

import "errors"

// ErrPuttsOnPickup is returned when putts are recorded against a pickup hole.
var ErrPuttsOnPickup = errors.New("putts cannot be recorded on a pickup hole")

// StepScore applies a +1/-1 stepper press to a hole score.
//
// An empty hole steps up to par (or 1 when par is unknown) and down to a
// pickup. From a pickup, up gives 1 and down clears the hole. A stroke count
// that would fall to zero becomes a pickup. Picking up clears putts.
func StepScore(rec HoleRecord, delta, par int) HoleRecord {
	if delta == 0 {
		return rec
	}

	switch {
	case rec.Score.IsZero():
		if delta > 0 {
			start := par
			if start <= 0 {
				start = 1
			}
			rec.Score = Stroked(start)
		} else {
			rec.Score = Pickup()
		}
	case rec.Score.IsPickup():
		if delta > 0 {
			rec.Score = Stroked(1)
		} else {
			rec.Score = HoleScore{}
		}
	default:
		strokes, _ := rec.Score.Strokes()
		next := strokes + delta
		if next <= 0 {
			rec.Score = Pickup()
		} else {
			rec.Score = Stroked(next)
		}
	}
	return rec.Normalize()
}

// StepPutts applies a +1/-1 stepper press to a hole's putts. An empty count
// steps up to 2 and down to 0 (holed out); stepping down from 0 clears it.
func StepPutts(rec HoleRecord, delta int) (HoleRecord, error) {
	if rec.Score.IsPickup() {
		return rec, ErrPuttsOnPickup
	}
	if delta == 0 {
		return rec, nil
	}

	var next *int
	switch {
	case rec.Putts == nil:
		v := 0
		if delta > 0 {
			v = 2
		}
		next = &v
	case *rec.Putts == 0 && delta < 0:
		next = nil
	default:
		v := *rec.Putts + delta
		if v < 0 {
			v = 0
		}
		next = &v
	}
	rec.Putts = next
	return rec, nil
}
