package scoredomain

// AllocatedStrokes returns the handicap strokes a player receives on a hole
// with the given stroke index: one when the handicap reaches the index and a
// second when it reaches 18 more than the index.
func AllocatedStrokes(strokeIndex, handicap int) int {
	if strokeIndex <= 0 {
		return 0
	}
	strokes := 0
	if handicap >= strokeIndex {
		strokes++
	}
	if handicap >= HoleCount+strokeIndex {
		strokes++
	}
	return strokes
}

// StablefordPoints scores one hole. Pickups, unrecorded holes and holes
// without par or stroke index earn nothing; callers decide whether that is
// shown as zero or as unavailable.
func StablefordPoints(score HoleScore, par, strokeIndex, handicap int) int {
	strokes, ok := score.Strokes()
	if !ok || par <= 0 || strokeIndex <= 0 {
		return 0
	}

	adjustedPar := par + AllocatedStrokes(strokeIndex, handicap)
	diff := adjustedPar - strokes
	if diff <= -2 {
		return 0
	}
	return diff + 2
}
