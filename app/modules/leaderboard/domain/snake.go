package leaderboarddomain

// Snake returns the participant holding the three-putt badge, or nil.
//
// Only participants who still have a hole with three or more putts and a
// recorded three-putt time are eligible; a stale timestamp on a corrected
// card never counts. The latest time wins. Participants arrive in key order
// and only a strictly later time displaces the current holder, so equal
// times resolve to the lowest key.
func Snake(participants []Participant) *SnakeHolder {
	var holder *SnakeHolder
	for _, p := range participants {
		s := p.Snapshot
		if s.LastThreePuttTime == nil || !s.Holes.HasThreePutt() {
			continue
		}
		if holder != nil && !s.LastThreePuttTime.After(holder.Since) {
			continue
		}
		hole := s.Holes.LatestThreePuttHole()
		if s.LastThreePuttHole != nil && s.Holes.Hole(*s.LastThreePuttHole).IsThreePutt() {
			hole = *s.LastThreePuttHole
		}
		holder = &SnakeHolder{
			ScorecardID: p.Key,
			PlayerName:  s.DisplayName(),
			Hole:        hole,
			Since:       *s.LastThreePuttTime,
		}
	}
	return holder
}
