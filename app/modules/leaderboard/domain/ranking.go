package leaderboarddomain

import (
	"cmp"
	"slices"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// Participant is a snapshot that survived merging, tagged with whether it
// came from the completed collection.
type Participant struct {
	Key      string
	Snapshot *rounddomain.Snapshot
	Finished bool
}

// Merge unions the active and completed snapshots of a round.
//
// Completed ids are collected first and used to drop stale active copies of
// the same participant. Snapshots without any identity are skipped. The
// result is ordered by key so identical inputs always rank identically.
func Merge(active, completed []*rounddomain.Snapshot) []Participant {
	completedKeys := make(map[string]bool, len(completed))
	for _, s := range completed {
		if s == nil {
			continue
		}
		if k := participantKey(s); k != "" {
			completedKeys[k] = true
		}
	}

	byKey := make(map[string]Participant, len(active)+len(completed))
	add := func(s *rounddomain.Snapshot, finished bool) {
		if s == nil || s.Identity() == "" {
			return
		}
		k := participantKey(s)
		if prev, ok := byKey[k]; ok && prev.Snapshot.UpdatedAt.After(s.UpdatedAt) {
			return
		}
		byKey[k] = Participant{Key: k, Snapshot: s, Finished: finished || s.Status == rounddomain.StatusFinished}
	}

	for _, s := range completed {
		add(s, true)
	}
	for _, s := range active {
		if s == nil || completedKeys[participantKey(s)] {
			continue
		}
		add(s, false)
	}

	out := make([]Participant, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Participant) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Scored keeps the participants with at least one recorded score, in order.
func Scored(participants []Participant) []Participant {
	out := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if p.Snapshot.Holes.ScoredHoles() > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Rank builds entries for every participant with at least one recorded score
// and orders them by stableford points, then holes played, both descending.
// Remaining ties keep key order.
func Rank(participants []Participant, course scoredomain.CourseData, viewer Viewer) []Entry {
	participants = Scored(participants)
	entries := make([]Entry, 0, len(participants))
	for _, p := range participants {
		s := p.Snapshot
		totals := scoredomain.CalculateTotals(&s.Holes, course, s.Tees, s.Handicap)
		entries = append(entries, Entry{
			ScorecardID:  p.Key,
			PlayerID:     s.PlayerID,
			PlayerName:   s.DisplayName(),
			Handicap:     s.Handicap,
			Tees:         s.Tees,
			Finished:     p.Finished,
			CurrentHole:  s.CurrentHole,
			Totals:       totals,
			NetScore:     scoredomain.NetScore(totals.Total.Score, s.Handicap),
			ScoreDisplay: scoreDisplay(totals),
			HoleDisplay:  holeDisplay(p.Finished, s.CurrentHole, totals.Total.HolesPlayed),
			IsViewer:     viewer.Matches(s),
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Totals.Total.Stableford, a.Totals.Total.Stableford); c != 0 {
			return c
		}
		return cmp.Compare(b.Totals.Total.HolesPlayed, a.Totals.Total.HolesPlayed)
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

func participantKey(s *rounddomain.Snapshot) string {
	if s.ID != "" {
		return s.ID
	}
	return s.Identity()
}
